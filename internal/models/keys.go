package models

import (
	"strconv"
	"strings"

	"github.com/google/uuid"
)

// keySpace is the namespace for generated node keys. Keys are name-based so
// submitting the same entity twice yields the same key.
var keySpace = uuid.MustParse("0b5f7a4e-3c1d-5e8a-9f62-4d7c2a1b8e90")

func generatedKey(kind string, parts ...string) string {
	name := kind + "\x00" + strings.Join(parts, "\x00")
	return uuid.NewSHA1(keySpace, []byte(name)).String()
}

// VersionKey derives the key of a document's version.
func VersionKey(documentID string, versionNumber int) string {
	return generatedKey("version", documentID, strconv.Itoa(versionNumber))
}

// ClassifierDataKey derives the key of a code within a classifier.
func ClassifierDataKey(classifierID, code string) string {
	return generatedKey("classifier_data", classifierID, code)
}

// EnricherKey derives the key of an enricher from its unique name.
func EnricherKey(name string) string {
	return generatedKey("enricher", name)
}

// ClassificationKey derives the key of a BGS classification applied to a document.
func ClassificationKey(documentID, code string) string {
	return generatedKey("bgs_classification", documentID, code)
}

// UserEditKey derives the key of an audit record from the whole change, so
// successive edits of one field stay distinct even without a timestamp.
func UserEditKey(documentID string, e UserEdit) string {
	return generatedKey("user_edit", documentID, e.Field, e.OriginalValue, e.EditedValue, e.EditedBy, e.EditedAt)
}
