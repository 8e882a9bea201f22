package dto

// UploadedFileResponse archivo guardado.
type UploadedFileResponse struct {
	Filename string `json:"filename"`
	Size     int64  `json:"size"`
}

// UploadResponse respuesta de POST /api/upload.
type UploadResponse struct {
	Success bool                   `json:"success"`
	Path    string                 `json:"path"`
	Files   []UploadedFileResponse `json:"files"`
}
