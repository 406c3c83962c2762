package entity

import "strings"

// MaxFileSize limits uploaded documents to 20 MB.
const MaxFileSize = 20 << 20

// DocumentType classifies an uploaded document.
type DocumentType string

const (
	DocContract  DocumentType = "contract"
	DocReport    DocumentType = "report"
	DocInvoice   DocumentType = "invoice"
	DocStatement DocumentType = "statement"
	DocOther     DocumentType = "other"
)

// DocumentTypes lists the selectable document types in menu order.
var DocumentTypes = []DocumentType{DocContract, DocReport, DocInvoice, DocStatement, DocOther}

// ParseDocumentType maps free text onto the document type enum,
// defaulting to DocOther.
func ParseDocumentType(raw string) DocumentType {
	switch DocumentType(strings.ToLower(strings.TrimSpace(raw))) {
	case DocContract:
		return DocContract
	case DocReport:
		return DocReport
	case DocInvoice:
		return DocInvoice
	case DocStatement:
		return DocStatement
	default:
		return DocOther
	}
}

// UploadResult is the document collaborator's answer to an upload.
type UploadResult struct {
	KnowledgeExtracted []string `json:"knowledge_extracted,omitempty"`
}

// FileMetadata is stored alongside archived documents.
type FileMetadata struct {
	MIMEType     string `json:"mime_type" bson:"mime_type"`
	Platform     string `json:"platform" bson:"platform"`
	SessionID    string `json:"session_id" bson:"session_id"`
	DocumentType string `json:"document_type" bson:"document_type"`
}

// PendingUpload references an archived document whose submission to the
// document collaborator has not succeeded yet. Kept on the chat state so a
// failed submission can be retried without re-uploading the file.
type PendingUpload struct {
	FileID       string       `json:"file_id" bson:"file_id"`
	Filename     string       `json:"filename" bson:"filename"`
	DocumentType DocumentType `json:"document_type" bson:"document_type"`
	Size         int64        `json:"size" bson:"size"`
}
