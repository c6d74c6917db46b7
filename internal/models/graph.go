package models

// Label names a node type.
type Label string

const (
	LabelUser              Label = "User"
	LabelFolder            Label = "Folder"
	LabelDocument          Label = "Document"
	LabelFileMetadata      Label = "FileMetadata"
	LabelVersion           Label = "Version"
	LabelSession           Label = "Session"
	LabelClassifier        Label = "Classifier"
	LabelClassifierData    Label = "ClassifierData"
	LabelEnricher          Label = "Enricher"
	LabelBGSClassification Label = "BGSClassification"
	LabelUserEdit          Label = "UserEdit"
)

// AllLabels lists every node label in a stable order.
var AllLabels = []Label{
	LabelUser,
	LabelFolder,
	LabelDocument,
	LabelFileMetadata,
	LabelVersion,
	LabelSession,
	LabelClassifier,
	LabelClassifierData,
	LabelEnricher,
	LabelBGSClassification,
	LabelUserEdit,
}

// RelType names a directed relationship type.
type RelType string

const (
	RelCreatedBy         RelType = "CREATED_BY"
	RelLastModifiedBy    RelType = "LAST_MODIFIED_BY"
	RelStoredIn          RelType = "STORED_IN"
	RelHasMetadata       RelType = "HAS_METADATA"
	RelHasVersion        RelType = "HAS_VERSION"
	RelInSession         RelType = "IN_SESSION"
	RelParent            RelType = "PARENT"
	RelHasData           RelType = "HAS_DATA"
	RelHasClassification RelType = "HAS_CLASSIFICATION"
	RelHasUserEdit       RelType = "HAS_USER_EDIT"
	RelEditedBy          RelType = "EDITED_BY"
)

// Cardinality bounds the number of targets a source may have for one relationship type.
type Cardinality int

const (
	One Cardinality = iota + 1
	Many
)

// RelationshipSchema declares the endpoint labels and cardinality of a relationship type.
// Exclusive targets belong to at most one source.
type RelationshipSchema struct {
	Type        RelType
	From        Label
	To          Label
	Cardinality Cardinality
	Exclusive   bool
}

// Relationships is the relationship model of the document graph.
var Relationships = []RelationshipSchema{
	{Type: RelCreatedBy, From: LabelDocument, To: LabelUser, Cardinality: One},
	{Type: RelLastModifiedBy, From: LabelDocument, To: LabelUser, Cardinality: One},
	{Type: RelStoredIn, From: LabelDocument, To: LabelFolder, Cardinality: One},
	{Type: RelHasMetadata, From: LabelDocument, To: LabelFileMetadata, Cardinality: One, Exclusive: true},
	{Type: RelHasVersion, From: LabelDocument, To: LabelVersion, Cardinality: Many, Exclusive: true},
	{Type: RelInSession, From: LabelDocument, To: LabelSession, Cardinality: One},
	{Type: RelParent, From: LabelClassifier, To: LabelClassifier, Cardinality: One},
	{Type: RelHasData, From: LabelClassifier, To: LabelClassifierData, Cardinality: Many, Exclusive: true},
	{Type: RelHasClassification, From: LabelDocument, To: LabelBGSClassification, Cardinality: Many, Exclusive: true},
	{Type: RelHasUserEdit, From: LabelDocument, To: LabelUserEdit, Cardinality: Many, Exclusive: true},
	{Type: RelEditedBy, From: LabelUserEdit, To: LabelUser, Cardinality: One},
}

// SchemaFor returns the declared schema of a relationship type.
func SchemaFor(t RelType) (RelationshipSchema, bool) {
	for _, s := range Relationships {
		if s.Type == t {
			return s, true
		}
	}
	return RelationshipSchema{}, false
}

// NodeRef identifies a node by label and natural key.
type NodeRef struct {
	Label Label  `json:"label"`
	Key   string `json:"key"`
}

// Edge is a typed, directed link between two nodes.
type Edge struct {
	Type RelType `json:"type"`
	From NodeRef `json:"from"`
	To   NodeRef `json:"to"`
}

// Node is implemented by every entity stored as a graph node.
type Node interface {
	Ref() NodeRef
}

func (u User) Ref() NodeRef              { return NodeRef{Label: LabelUser, Key: u.ID} }
func (f Folder) Ref() NodeRef            { return NodeRef{Label: LabelFolder, Key: f.ID} }
func (d Document) Ref() NodeRef          { return NodeRef{Label: LabelDocument, Key: d.ID} }
func (m FileMetadata) Ref() NodeRef      { return NodeRef{Label: LabelFileMetadata, Key: m.DocumentID} }
func (v Version) Ref() NodeRef           { return NodeRef{Label: LabelVersion, Key: v.ID} }
func (s Session) Ref() NodeRef           { return NodeRef{Label: LabelSession, Key: s.SessionID} }
func (c Classifier) Ref() NodeRef        { return NodeRef{Label: LabelClassifier, Key: c.ID} }
func (d ClassifierData) Ref() NodeRef    { return NodeRef{Label: LabelClassifierData, Key: d.ID} }
func (e Enricher) Ref() NodeRef          { return NodeRef{Label: LabelEnricher, Key: e.ID} }
func (b BGSClassification) Ref() NodeRef { return NodeRef{Label: LabelBGSClassification, Key: b.ID} }
func (e UserEdit) Ref() NodeRef          { return NodeRef{Label: LabelUserEdit, Key: e.ID} }
