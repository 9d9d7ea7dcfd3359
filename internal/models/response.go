package models

// FileData is the per-artifact payload returned by every upload and
// conversion endpoint.
type FileData struct {
	Filename     string `json:"filename"`
	OriginalName string `json:"originalname"`
	MimeType     string `json:"mimetype"`
	Size         int64  `json:"size"`
	Encoding     string `json:"encoding"`
	URI          string `json:"uri"`
}

type ConvertPDFResponse struct {
	File    FileData `json:"file"`
	PDFFile FileData `json:"pdfFile"`
}

type ConvertPDFsResponse struct {
	Files    []FileData `json:"files"`
	PDFFiles []FileData `json:"pdfFiles"`
}

type ConvertImageResponse struct {
	File    FileData `json:"file"`
	PicFile FileData `json:"picFile"`
}

type ConvertImagesResponse struct {
	Files    []FileData `json:"files"`
	PicFiles []FileData `json:"picFiles"`
}

type ConvertChainResponse struct {
	File    FileData `json:"file"`
	PDFFile FileData `json:"pdfFile"`
	PicFile FileData `json:"picFile"`
}

type SuccessResponse struct {
	StatusCode int         `json:"statusCode"`
	Message    string      `json:"message"`
	Data       interface{} `json:"data"`
}

type ErrorResponse struct {
	StatusCode int    `json:"statusCode"`
	Error      string `json:"error"`
}

type HealthResponse struct {
	Status string `json:"status"`
}
