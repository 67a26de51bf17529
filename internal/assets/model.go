package assets

import "time"

// Asset is one stored image. Data is only populated when the bytes were
// explicitly requested; listings carry metadata only.
type Asset struct {
	ID          string
	FileName    string
	ContentType string
	SizeBytes   int64
	UploaderID  string
	Data        []byte
	CreatedAt   time.Time
}
