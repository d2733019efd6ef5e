// Package resource throttles requests issued to the backing store.
//
// A Controller bounds the number of in-flight commands and, optionally, the
// command rate. A nil *Controller is valid and imposes no limits.
package resource
