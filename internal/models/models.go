package models

// User is a person who creates or modifies documents.
type User struct {
	ID          string `json:"id"`
	Email       string `json:"email"`
	DisplayName string `json:"display_name"`
}

// Folder is a drive location that stores documents.
type Folder struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Path      string `json:"path"`
	DriveType string `json:"drive_type"`
	DriveID   string `json:"drive_id"`
	SiteID    string `json:"site_id"`
}

// Document is the root of the export projection.
type Document struct {
	ID                   string `json:"id"`
	Name                 string `json:"name"`
	Label                string `json:"label"`
	Size                 int64  `json:"size"`
	FileName             string `json:"file_name,omitempty"`
	Source               string `json:"source"`
	Type                 string `json:"type"`
	CreatedDateTime      string `json:"created_date_time"`
	LastModifiedDateTime string `json:"last_modified_date_time"`
	WebURL               string `json:"web_url"`
	DownloadURL          string `json:"download_url"`
	DriveID              string `json:"drive_id"`
	SiteID               string `json:"site_id"`
	Status               string `json:"status"`
	Description          string `json:"description,omitempty"`
}

// FileMetadata holds the file facet of a document. Keyed by its document.
type FileMetadata struct {
	DocumentID           string `json:"document_id,omitempty"`
	MimeType             string `json:"mime_type"`
	QuickXorHash         string `json:"quick_xor_hash"`
	SharedScope          string `json:"shared_scope"`
	CreatedDateTime      string `json:"created_date_time"`
	LastModifiedDateTime string `json:"last_modified_date_time"`
}

// Version is one revision of a document.
type Version struct {
	ID            string `json:"id,omitempty"`
	DocumentID    string `json:"document_id,omitempty"`
	ETag          string `json:"e_tag"`
	CTag          string `json:"c_tag"`
	Timestamp     string `json:"timestamp"`
	VersionNumber int    `json:"version_number"`
}

// Session groups documents by processing run.
type Session struct {
	SessionID   string `json:"session_id"`
	SessionName string `json:"session_name"`
	CreatedAt   string `json:"created_at"`
	CreatedBy   string `json:"created_by"`
	FileCount   int    `json:"file_count"`
	CompletedAt string `json:"completed_at,omitempty"`
	Status      string `json:"status"`
	Warnings    int    `json:"warnings"`
	RowCount    int    `json:"row_count"`
}

// Classifier is a classification dimension, optionally nested under a parent.
type Classifier struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	IsHierarchy bool   `json:"is_hierarchy"`
	ParentID    string `json:"parent_id,omitempty"`
	Prompt      string `json:"prompt"`
	Description string `json:"description"`
}

// ClassifierData is one code within a classifier.
type ClassifierData struct {
	ID           string `json:"id,omitempty"`
	ClassifierID string `json:"classifier_id,omitempty"`
	Code         string `json:"code"`
	Description  string `json:"description"`
	Prompt       string `json:"prompt,omitempty"`
}

// Enricher describes an extraction rule applied to documents.
type Enricher struct {
	ID         string `json:"id,omitempty"`
	Name       string `json:"name"`
	SearchTerm string `json:"search_term"`
	Body       string `json:"body"`
	Active     bool   `json:"active"`
	Value      string `json:"value,omitempty"`
}

// BGSClassification is a survey code applied to a document.
type BGSClassification struct {
	ID          string `json:"id,omitempty"`
	DocumentID  string `json:"document_id,omitempty"`
	Code        string `json:"code"`
	Explanation string `json:"explanation"`
	Tooltip     string `json:"tooltip"`
	AppliedAt   string `json:"applied_at"`
}

// UserEdit is an audit record of a manual field change.
type UserEdit struct {
	ID            string `json:"id,omitempty"`
	DocumentID    string `json:"document_id,omitempty"`
	Field         string `json:"field"`
	OriginalValue string `json:"original_value"`
	EditedValue   string `json:"edited_value"`
	EditedBy      string `json:"edited_by"`
	EditedAt      string `json:"edited_at"`
	Reason        string `json:"reason,omitempty"`
}
