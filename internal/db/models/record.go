package models

import (
	"encoding/json"
	"fmt"
	"time"
)

// TypedField is a field of a typed record. Values are kept as decoded JSON.
type TypedField struct {
	Type  string        `json:"type"`
	Label string        `json:"label,omitempty"`
	Value []interface{} `json:"value"`
}

// FirstValue returns the first value of the field, ok is false for an empty field
func (f TypedField) FirstValue() (interface{}, bool) {
	if len(f.Value) == 0 {
		return nil, false
	}
	return f.Value[0], true
}

// FirstString returns the first value when it is a string
func (f TypedField) FirstString() (string, bool) {
	v, ok := f.FirstValue()
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}

// Record is a typed record in the local vault cache
type Record struct {
	UID                string       `json:"record_uid" gorm:"primaryKey;size:32"`
	Type               string       `json:"type" gorm:"not null;index"`
	Title              string       `json:"title" gorm:"not null"`
	Revision           int64        `json:"revision" gorm:"not null;default:0"`
	FolderUID          string       `json:"folder_uid" gorm:"index"`
	FolderType         string       `json:"folder_type"`
	RecordKey          []byte       `json:"-"`
	Data               []byte       `json:"-"`
	Fields             []TypedField `json:"fields" gorm:"serializer:json"`
	Custom             []TypedField `json:"custom" gorm:"serializer:json"`
	Notes              string       `json:"notes" gorm:"type:text"`
	ClientModifiedTime int64        `json:"client_modified_time"`
	CreatedAt          time.Time    `json:"created_at"`
	UpdatedAt          time.Time    `json:"updated_at"`
}

// RecordData is the typed payload of a record, the part that gets sealed with the record key
type RecordData struct {
	Title  string       `json:"title"`
	Type   string       `json:"type"`
	Fields []TypedField `json:"fields"`
	Custom []TypedField `json:"custom"`
	Notes  string       `json:"notes"`
}

// Payload returns the typed payload of the record
func (r *Record) Payload() RecordData {
	fields := r.Fields
	if fields == nil {
		fields = []TypedField{}
	}
	custom := r.Custom
	if custom == nil {
		custom = []TypedField{}
	}
	return RecordData{
		Title:  r.Title,
		Type:   r.Type,
		Fields: fields,
		Custom: custom,
		Notes:  r.Notes,
	}
}

// MarshalData serializes the typed payload
func (r *Record) MarshalData() ([]byte, error) {
	b, err := json.Marshal(r.Payload())
	if err != nil {
		return nil, fmt.Errorf("failed to marshal record %s: %w", r.UID, err)
	}
	return b, nil
}

// FieldByType returns the first standard field of the given type, or nil
func (r *Record) FieldByType(fieldType string) *TypedField {
	for i := range r.Fields {
		if r.Fields[i].Type == fieldType {
			return &r.Fields[i]
		}
	}
	return nil
}

// CustomField returns the custom field with the given label, or nil
func (r *Record) CustomField(label string) *TypedField {
	for i := range r.Custom {
		if r.Custom[i].Label == label {
			return &r.Custom[i]
		}
	}
	return nil
}

// SetCustomField replaces the value of the labelled custom field, appending the field when absent
func (r *Record) SetCustomField(fieldType, label string, value ...interface{}) {
	if value == nil {
		value = []interface{}{}
	}
	if f := r.CustomField(label); f != nil {
		f.Value = value
		return
	}
	r.Custom = append(r.Custom, TypedField{Type: fieldType, Label: label, Value: value})
}
