// Package vision defines the wire contract shared with the external
// vision/emotion analysis collaborator: the named-event identifiers it emits
// and the payload shapes they carry. The package is a leaf on purpose so both
// the classifier and event producers can depend on it.
package vision

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Named events produced by the vision collaborator and delivered to bots as
// event activities.
const (
	// EventFacesAnalysed carries a "<userId>;<userName>" string value.
	EventFacesAnalysed = "facesAnalysed"

	// EventNewEmotion carries a free-text emotion label.
	EventNewEmotion = "newEmotion"

	// EventImageAnalysed carries a JSON array of detected Object records.
	EventImageAnalysed = "imageAnalysed"

	// EventImageError signals the backend could not process an image. No value.
	EventImageError = "imageError"
)

// Object is one detected-object record from an image analysis result.
type Object struct {
	Obj string `json:"obj"`
}

// faceFieldCount is the number of ";"-delimited fields in a FacesAnalysed value.
const faceFieldCount = 2

// ParseFaces splits a FacesAnalysed value into user ID and display name.
// A value with the wrong field count is malformed; per the event contract the
// consumer treats that as an ignorable no-op, so the error exists for logging
// only.
func ParseFaces(value string) (userID, userName string, err error) {
	parts := strings.Split(value, ";")
	if len(parts) != faceFieldCount {
		return "", "", fmt.Errorf("faces payload has %d fields, want %d", len(parts), faceFieldCount)
	}
	return parts[0], parts[1], nil
}

// ParseObjects decodes an ImageAnalysed value into its ordered object list.
func ParseObjects(value []byte) ([]Object, error) {
	var objects []Object
	if err := json.Unmarshal(value, &objects); err != nil {
		return nil, fmt.Errorf("decode image analysis payload: %w", err)
	}
	return objects, nil
}
