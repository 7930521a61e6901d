package models

import "sort"

// UploadPayload is the flat field set assembled for the target site's
// upload form. Values are string, []string, or int.
type UploadPayload map[string]interface{}

// Apply merges a delta into the payload. Later deltas overwrite earlier
// keys; this ordering is part of the assembly contract.
func (p UploadPayload) Apply(delta UploadPayload) UploadPayload {
	for k, v := range delta {
		p[k] = v
	}
	return p
}

// Strip removes the named fields if present.
func (p UploadPayload) Strip(fields ...string) {
	for _, f := range fields {
		delete(p, f)
	}
}

// Clone returns a shallow copy.
func (p UploadPayload) Clone() UploadPayload {
	out := make(UploadPayload, len(p))
	for k, v := range p {
		out[k] = v
	}
	return out
}

// Scrubbed returns a copy with the auth token replaced, for dry-run and
// debug logging.
func (p UploadPayload) Scrubbed() UploadPayload {
	out := p.Clone()
	if _, ok := out["auth"]; ok {
		out["auth"] = "<scrubbed>"
	}
	return out
}

// Keys returns the field names in stable order, for deterministic logging.
func (p UploadPayload) Keys() []string {
	keys := make([]string, 0, len(p))
	for k := range p {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
