// Package model defines the form schema types shared by the store, the
// validation engine, the renderers and the persistence layer. Fields keep a
// dense zero-based `order` that always matches their position in the owning
// form; the store is the only component that rewrites it. The JSON tags
// describe the persisted state shape:
//
//	{
//	  "currentForm": {"id": "...", "name": "...", "fields": [...]},
//	  "forms": [{"id": "...", "name": "...", "fields": [...], "responses": [...]}]
//	}
//
// Values handed to the validation engine and stored in responses are keyed by
// field id. Single-valued inputs carry strings, checkbox groups carry ordered
// string lists and boolean toggles carry bools.
package model
