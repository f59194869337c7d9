package remote

import (
	"encoding/json"
	"strconv"

	"github.com/glitchdraft/draftsync/internal/domain"
)

// The store addresses documents holding typed key/value fields. A draft
// list is an array of maps with html (string) and timestamp
// (integer-as-string) entries; the position map rides in the settings
// document as one JSON-serialized string field.

type docValue struct {
	StringValue  *string   `json:"stringValue,omitempty"`
	IntegerValue *string   `json:"integerValue,omitempty"`
	ArrayValue   *docArray `json:"arrayValue,omitempty"`
	MapValue     *docMap   `json:"mapValue,omitempty"`
}

type docArray struct {
	Values []docValue `json:"values,omitempty"`
}

type docMap struct {
	Fields map[string]docValue `json:"fields,omitempty"`
}

type document struct {
	Name   string              `json:"name,omitempty"`
	Fields map[string]docValue `json:"fields,omitempty"`
}

const (
	fieldMessages       = "messages"
	fieldHTML           = "html"
	fieldTimestamp      = "timestamp"
	fieldLastModified   = "lastModified"
	fieldLastModifiedBy = "lastModifiedBy"
	fieldUIPositions    = "uiPositions"
)

func stringValue(s string) docValue { return docValue{StringValue: &s} }

func integerValue(i int64) docValue {
	v := strconv.FormatInt(i, 10)
	return docValue{IntegerValue: &v}
}

func (v docValue) str() string {
	if v.StringValue == nil {
		return ""
	}
	return *v.StringValue
}

func (v docValue) int64() int64 {
	if v.IntegerValue == nil {
		return 0
	}
	n, err := strconv.ParseInt(*v.IntegerValue, 10, 64)
	if err != nil {
		return 0
	}
	return n
}

func encodeDraftList(list domain.DraftList, nowMillis int64, clientID string) document {
	values := make([]docValue, 0, len(list))
	for _, d := range list {
		values = append(values, docValue{MapValue: &docMap{Fields: map[string]docValue{
			fieldHTML:      stringValue(d.Content),
			fieldTimestamp: integerValue(d.CreatedAt),
		}}})
	}
	fields := map[string]docValue{
		fieldMessages:     {ArrayValue: &docArray{Values: values}},
		fieldLastModified: integerValue(nowMillis),
	}
	if clientID != "" {
		fields[fieldLastModifiedBy] = stringValue(clientID)
	}
	return document{Fields: fields}
}

func decodeDraftList(doc document) domain.DraftList {
	arr := doc.Fields[fieldMessages].ArrayValue
	if arr == nil {
		return domain.DraftList{}
	}
	list := make(domain.DraftList, 0, len(arr.Values))
	for _, v := range arr.Values {
		if v.MapValue == nil {
			continue
		}
		list = append(list, domain.Draft{
			Content:   v.MapValue.Fields[fieldHTML].str(),
			CreatedAt: v.MapValue.Fields[fieldTimestamp].int64(),
		})
	}
	list.SortNewestFirst()
	return list
}

// SettingsDoc is the decoded settings document: the position map plus
// whatever other fields it carries, preserved verbatim so a full
// overwrite never drops another client's data.
type SettingsDoc struct {
	Positions domain.UIPositionMap
	extra     map[string]docValue
}

func encodeSettings(s *SettingsDoc, clientID string) document {
	fields := make(map[string]docValue, len(s.extra)+2)
	for k, v := range s.extra {
		fields[k] = v
	}
	positions := s.Positions
	if positions == nil {
		positions = domain.UIPositionMap{}
	}
	data, err := json.Marshal(positions)
	if err != nil {
		data = []byte("{}")
	}
	fields[fieldUIPositions] = stringValue(string(data))
	if clientID != "" {
		fields[fieldLastModifiedBy] = stringValue(clientID)
	}
	return document{Fields: fields}
}

func decodeSettings(doc document) *SettingsDoc {
	s := &SettingsDoc{Positions: domain.UIPositionMap{}}
	for k, v := range doc.Fields {
		if k == fieldUIPositions {
			continue
		}
		if s.extra == nil {
			s.extra = make(map[string]docValue)
		}
		s.extra[k] = v
	}
	raw := doc.Fields[fieldUIPositions].str()
	if raw == "" {
		return s
	}
	// A corrupted blob reads as "no data", never as a failure.
	if err := json.Unmarshal([]byte(raw), &s.Positions); err != nil {
		s.Positions = domain.UIPositionMap{}
	}
	return s
}
