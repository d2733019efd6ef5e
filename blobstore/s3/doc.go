// Package s3 implements blobstore.Store on Amazon S3 using aws-sdk-go-v2.
//
// Small objects are written with PutObject. When the client also satisfies
// manager.UploadAPIClient (as *s3.Client does), objects above the multipart
// threshold are uploaded in parts through the S3 transfer manager.
package s3
