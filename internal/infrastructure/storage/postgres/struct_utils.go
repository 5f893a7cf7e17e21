package postgres

import (
	"reflect"
	"sync"
)

// ExtractDBColumns extracts all column names from struct "db" tags.
// It handles embedded structs (like entity.Document) recursively and is meant
// to run once per type at repository construction.
//
//	columns := ExtractDBColumns[gate_inward.GateInward]()
//	// ["id", "version", "created_at", ..., "number", "date", "supplier_id", ...]
func ExtractDBColumns[T any]() []string {
	var zero T
	return extractColumnsFromType(reflect.TypeOf(zero))
}

func extractColumnsFromType(t reflect.Type) []string {
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	if t.Kind() != reflect.Struct {
		return nil
	}

	var cols []string
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)

		if field.Anonymous {
			cols = append(cols, extractColumnsFromType(field.Type)...)
			continue
		}

		tag := field.Tag.Get("db")
		if tag == "" || tag == "-" {
			continue
		}
		cols = append(cols, tag)
	}

	return cols
}

type fieldInfo struct {
	index int
	dbTag string
}

type typeMetadata struct {
	fields          []fieldInfo
	embeddedIndices []int
}

var typeCache sync.Map // map[reflect.Type]*typeMetadata

func getOrCreateTypeMetadata(t reflect.Type) *typeMetadata {
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}

	if cached, ok := typeCache.Load(t); ok {
		return cached.(*typeMetadata)
	}

	meta := &typeMetadata{}
	if t.Kind() == reflect.Struct {
		for i := 0; i < t.NumField(); i++ {
			field := t.Field(i)
			if field.Anonymous {
				meta.embeddedIndices = append(meta.embeddedIndices, i)
				continue
			}
			tag := field.Tag.Get("db")
			if tag == "" || tag == "-" {
				continue
			}
			meta.fields = append(meta.fields, fieldInfo{index: i, dbTag: tag})
		}
	}

	actual, _ := typeCache.LoadOrStore(t, meta)
	return actual.(*typeMetadata)
}

// StructToMap converts a struct to a map using "db" tags.
// Fields without a tag or tagged "-" are skipped. Type metadata is cached.
func StructToMap(v any) map[string]any {
	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Ptr {
		rv = rv.Elem()
	}
	if rv.Kind() != reflect.Struct {
		return nil
	}

	meta := getOrCreateTypeMetadata(rv.Type())
	res := make(map[string]any, len(meta.fields))

	for _, fi := range meta.fields {
		res[fi.dbTag] = rv.Field(fi.index).Interface()
	}
	for _, embIdx := range meta.embeddedIndices {
		for k, v := range StructToMap(rv.Field(embIdx).Interface()) {
			res[k] = v
		}
	}

	return res
}

// PickColumns returns the entries of data named by cols, skipping excluded ones.
func PickColumns(data map[string]any, cols []string, exclude ...string) map[string]any {
	skip := make(map[string]struct{}, len(exclude))
	for _, c := range exclude {
		skip[c] = struct{}{}
	}

	out := make(map[string]any, len(cols))
	for _, col := range cols {
		if _, ok := skip[col]; ok {
			continue
		}
		if v, ok := data[col]; ok {
			out[col] = v
		}
	}
	return out
}
