package sqlengine

import (
	"errors"

	jsoniter "github.com/json-iterator/go"
)

// Decoder turns a loaded Record into the repository's entity type.
type Decoder[T any] func(record *Record) (T, error)

var jsonAPI = jsoniter.ConfigCompatibleWithStandardLibrary

// JSONDecoder decodes through a JSON document keyed by field and relation names, so T is described
// with plain json tags:
//
//	type Product struct {
//		ID       int64     `json:"id"`
//		Name     string    `json:"name"`
//		Category *Category `json:"category,omitempty"`
//	}
//
// Relations appear only when a fetch pass loaded them. A Record reached again through a cycle
// (order -> items -> order) is left out the second time.
func JSONDecoder[T any]() Decoder[T] {
	return func(record *Record) (T, error) {
		var entity T

		if direct, ok := any(record).(T); ok {
			return direct, nil
		}

		document := documentOf(record, make(map[*Record]bool))

		data, err := jsonAPI.Marshal(document)
		if err != nil {
			return entity, errors.Join(ErrDecodingEntityFailed, err)
		}

		if err := jsonAPI.Unmarshal(data, &entity); err != nil {
			return entity, errors.Join(ErrDecodingEntityFailed, err)
		}

		return entity, nil
	}
}

func documentOf(record *Record, visiting map[*Record]bool) map[string]any {
	visiting[record] = true
	defer delete(visiting, record)

	document := make(map[string]any, len(record.values)+len(record.loaded))
	for field, value := range record.values {
		document[field] = value
	}

	for relation := range record.loaded {
		if target, ok := record.toOne[relation]; ok && target != nil {
			if !visiting[target] {
				document[relation] = documentOf(target, visiting)
			}

			continue
		}

		targets, ok := record.toMany[relation]
		if !ok {
			continue
		}

		items := make([]map[string]any, 0, len(targets))
		for _, target := range targets {
			if visiting[target] {
				continue
			}

			items = append(items, documentOf(target, visiting))
		}

		document[relation] = items
	}

	return document
}
