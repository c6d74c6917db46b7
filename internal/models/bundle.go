package models

// DocumentGraph is a creation request for one document and the entities around it.
// User, folder and session references resolve against the store or against the
// inline definitions carried in the same request.
type DocumentGraph struct {
	Document       Document `json:"document"`
	CreatedBy      string   `json:"created_by,omitempty"`
	LastModifiedBy string   `json:"last_modified_by,omitempty"`
	FolderID       string   `json:"folder_id,omitempty"`
	SessionID      string   `json:"session_id,omitempty"`

	Users   []User   `json:"users,omitempty"`
	Folder  *Folder  `json:"folder,omitempty"`
	Session *Session `json:"session,omitempty"`

	Metadata        *FileMetadata       `json:"metadata,omitempty"`
	Versions        []Version           `json:"versions,omitempty"`
	Classifications []BGSClassification `json:"classifications,omitempty"`
	Edits           []UserEdit          `json:"edits,omitempty"`
}

// ClassifierBundle is a classifier together with its codes.
type ClassifierBundle struct {
	Classifier Classifier       `json:"classifier"`
	Data       []ClassifierData `json:"data,omitempty"`
}

// Outcome reports whether an upsert wrote a new node.
type Outcome string

const (
	OutcomeCreated        Outcome = "created"
	OutcomeAlreadyExisted Outcome = "already_existed"
)

// UpsertResult is the outcome of one node upsert.
type UpsertResult struct {
	Label   Label   `json:"label"`
	Key     string  `json:"key"`
	Outcome Outcome `json:"outcome"`
}

// Created reports whether the upsert wrote a new node.
func (r UpsertResult) Created() bool {
	return r.Outcome == OutcomeCreated
}

// CreateResult summarises an atomic document graph creation.
type CreateResult struct {
	DocumentID           string         `json:"document_id"`
	Nodes                []UpsertResult `json:"nodes"`
	RelationshipsCreated int            `json:"relationships_created"`
	RelationshipsExisted int            `json:"relationships_existed"`
}

// DeleteReport summarises a cascade deletion.
type DeleteReport struct {
	Nodes         map[Label]int64 `json:"nodes"`
	Relationships int64           `json:"relationships"`
}

// GraphStats counts stored nodes per label and relationships overall.
type GraphStats struct {
	Nodes         map[Label]int64 `json:"nodes"`
	Relationships int64           `json:"relationships"`
}

// Empty reports whether the store holds nothing at all.
func (s GraphStats) Empty() bool {
	if s.Relationships != 0 {
		return false
	}
	for _, n := range s.Nodes {
		if n != 0 {
			return false
		}
	}
	return true
}
