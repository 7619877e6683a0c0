package dto

// UploadResponse describes a stored object.
type UploadResponse struct {
	URL       string `json:"url"`
	Path      string `json:"path"`
	FileName  string `json:"file_name"`
	MimeType  string `json:"mime_type"`
	SizeBytes int64  `json:"size_bytes"`
	Checksum  string `json:"checksum"`
}
