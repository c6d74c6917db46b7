package models

// DocumentExport is the denormalized view of a document and everything
// reachable from it. Sections whose relationship is missing are omitted.
type DocumentExport struct {
	Name                 string `json:"name"`
	Source               string `json:"source"`
	FileName             string `json:"file_name,omitempty"`
	LastModifiedDate     string `json:"lastModifiedDate"`
	Size                 int64  `json:"size"`
	ID                   string `json:"id"`
	SiteID               string `json:"site_id"`
	DriveID              string `json:"drive_id"`
	Label                string `json:"label"`
	Type                 string `json:"type"`
	DownloadURL          string `json:"@microsoft.graph.downloadUrl"`
	CreatedDateTime      string `json:"createdDateTime"`
	LastModifiedDateTime string `json:"lastModifiedDateTime"`
	WebURL               string `json:"webUrl"`
	Status               string `json:"status"`
	Description          string `json:"description,omitempty"`

	CreatedBy       *IdentityExport        `json:"createdBy,omitempty"`
	LastModifiedBy  *IdentityExport        `json:"lastModifiedBy,omitempty"`
	ParentReference *ParentReference       `json:"parentReference,omitempty"`
	File            *FileFacet             `json:"file,omitempty"`
	FileSystemInfo  *FileSystemInfo        `json:"fileSystemInfo,omitempty"`
	Shared          *SharedFacet           `json:"shared,omitempty"`
	CTag            string                 `json:"cTag,omitempty"`
	ETag            string                 `json:"eTag,omitempty"`
	Versions        []VersionExport        `json:"versions"`
	Classifications []ClassificationExport `json:"classifications,omitempty"`
}

// IdentityExport is a user as seen from a document.
type IdentityExport struct {
	ID          string `json:"id"`
	Email       string `json:"email"`
	DisplayName string `json:"displayName"`
}

// ParentReference is the folder a document is stored in.
type ParentReference struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Path      string `json:"path"`
	DriveType string `json:"driveType"`
	DriveID   string `json:"driveId"`
	SiteID    string `json:"siteId"`
}

// FileFacet carries content hash and mime type.
type FileFacet struct {
	Hashes   FileHashes `json:"hashes"`
	MimeType string     `json:"mimeType"`
}

// FileHashes lists content hashes of a file.
type FileHashes struct {
	QuickXorHash string `json:"quickXorHash"`
}

// FileSystemInfo carries the file timestamps.
type FileSystemInfo struct {
	CreatedDateTime      string `json:"createdDateTime"`
	LastModifiedDateTime string `json:"lastModifiedDateTime"`
}

// SharedFacet carries the sharing scope.
type SharedFacet struct {
	Scope string `json:"scope"`
}

// VersionExport is one enumerated version, ordered by VersionNumber.
type VersionExport struct {
	VersionNumber int    `json:"versionNumber"`
	ETag          string `json:"eTag"`
	CTag          string `json:"cTag"`
	Timestamp     string `json:"timestamp"`
}

// ClassificationExport is a BGS code applied to the document.
type ClassificationExport struct {
	Code        string `json:"code"`
	Explanation string `json:"explanation"`
	Tooltip     string `json:"tooltip"`
	AppliedAt   string `json:"appliedAt"`
}

// ClassifierExport is a classifier with its codes inlined.
type ClassifierExport struct {
	Classifier
	Data []ClassifierData `json:"data"`
}

// SessionStandardExport is the classifier and enricher configuration shared by sessions.
type SessionStandardExport struct {
	Classifiers []ClassifierExport `json:"classifiers"`
	Enrichers   []Enricher         `json:"enrichers"`
}
