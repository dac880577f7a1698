package adapter

import "context"

// FileTransfer is the port for the temporary public file host. Upload
// must return a directly-fetchable HTTPS URL, never a landing page.
type FileTransfer interface {
	Upload(ctx context.Context, localPath string) (string, error)
	Download(ctx context.Context, remoteURL, localPath string) error
}
