// Package filesystem wraps the few filesystem calls the photo pipeline makes
// (stat, open and readdir) with retry logic for stale NFS file handles.
//
// Photo libraries are frequently mounted over NFS. When the server side
// replaces a file, open handles and cached dentries can return ESTALE for a
// short window. The helpers here retry only that error, with capped
// exponential backoff, and report every attempt to an Observer:
//
//	f, err := filesystem.OpenWithRetry(path, filesystem.DefaultRetryConfig())
//
// Any other error is returned immediately.
//
// The Observer is installed at startup with SetObserver. The metrics package
// provides the production implementation; tests leave it unset.
package filesystem
