package walletgo

import (
	"github.com/spf13/cast"
)

// Claim is one display-ready (label, value) pair.
type Claim struct {
	Label string
	Value string
}

// ledger bookkeeping keys that are not human-facing claims
var indyReservedKeys = []string{"cred_def_id", "schema_id", "nonce", "key_correctness_proof"}

// Claims flattens the record's raw claim bag into an ordered list of display
// pairs. Projection never fails: malformed or missing claim containers yield
// an empty list. Relabeling for the UI is the caller's concern.
func (record *CredentialRecord) Claims() []Claim {
	doc, err := ParseAnyValue(record.RawPayload)
	if err != nil || doc.Kind() != AnyObject {
		return nil
	}

	// The attributes-array shape (Indy and mdoc detail views).
	if attrs, ok := doc.Field("attributes"); ok && attrs.Kind() == AnyArray {
		return projectAttributesArray(attrs)
	}

	// The credentialSubject shape (JSON-LD), bare or wrapped under a
	// credential key. Only string values are projected, without renaming.
	if subject, ok := credentialSubjectOf(doc); ok {
		return projectObjectStrings(subject, nil)
	}

	// Indy stored records keep claims in a properties bag or in the signed
	// credential's values; the merged offer document is a flat label map.
	if record.Format == FormatIndy {
		if props, ok := doc.Field("properties"); ok && props.Kind() == AnyObject {
			return projectObjectCoerced(props, nil)
		}
		if cred, ok := doc.Field("cred_json"); ok {
			if values, ok := cred.Field("values"); ok && values.Kind() == AnyObject {
				return projectIndyValues(values)
			}
		}
		return projectObjectCoerced(doc, indyReservedKeys)
	}

	// mdoc payloads without an attributes array key claims by namespace.
	if record.Format == FormatMDoc {
		return record.MDocClaims()
	}
	return nil
}

// Claims projects the verification's generated claims; before a proof has
// been produced it falls back to the disclosed attributes of an mdoc request
// so detail views can show what is being asked.
func (record *VerificationRecord) Claims() []Claim {
	if record.GeneratedClaims != nil {
		return projectAnyClaims(*record.GeneratedClaims)
	}
	if record.Request != nil && record.Request.MDoc != nil {
		var claims []Claim
		for _, attr := range record.Request.MDoc.Attributes {
			if value, ok := coerceString(attr.Value); ok {
				claims = append(claims, Claim{Label: attr.ID, Value: value})
			}
		}
		return claims
	}
	return nil
}

// MDocClaims projects the mdoc namespace map or attribute array of a
// credential payload, one pair per claim.
func (record *CredentialRecord) MDocClaims() []Claim {
	if record.Format != FormatMDoc {
		return nil
	}
	var claims []Claim
	for _, attr := range mdocAttributes(record.RawPayload) {
		if value, ok := coerceString(attr.Value); ok {
			claims = append(claims, Claim{Label: attr.ID, Value: value})
		}
	}
	return claims
}

func projectAnyClaims(v AnyValue) []Claim {
	switch v.Kind() {
	case AnyArray:
		return projectAttributesArray(v)
	case AnyObject:
		return projectObjectCoerced(v, nil)
	default:
		return nil
	}
}

// projectAttributesArray projects the {ns, id, value} tuple array shape:
// one pair per entry, skipping entries whose value is not string-coercible.
func projectAttributesArray(attrs AnyValue) []Claim {
	var claims []Claim
	for _, entry := range attrs.Array() {
		if entry.Kind() != AnyObject {
			continue
		}
		label := ""
		if id, ok := entry.Field("id"); ok {
			label, _ = id.StringValue()
		} else if name, ok := entry.Field("name"); ok {
			label, _ = name.StringValue()
		}
		value, ok := entry.Field("value")
		if !ok {
			continue
		}
		coerced, ok := coerceString(value)
		if !ok {
			continue
		}
		claims = append(claims, Claim{Label: label, Value: coerced})
	}
	return claims
}

// projectObjectStrings projects an object's string members only.
func projectObjectStrings(obj AnyValue, skip []string) []Claim {
	var claims []Claim
	for _, field := range obj.Fields() {
		if stringsContains(skip, field.Key) {
			continue
		}
		if field.Value.Kind() != AnyString {
			continue
		}
		claims = append(claims, Claim{Label: field.Key, Value: field.Value.Str()})
	}
	return claims
}

// projectObjectCoerced projects an object's members, coercing scalar values
// to strings and skipping the rest.
func projectObjectCoerced(obj AnyValue, skip []string) []Claim {
	var claims []Claim
	for _, field := range obj.Fields() {
		if stringsContains(skip, field.Key) {
			continue
		}
		value, ok := coerceString(field.Value)
		if !ok {
			continue
		}
		claims = append(claims, Claim{Label: field.Key, Value: value})
	}
	return claims
}

// projectIndyValues projects the signed credential values shape, where each
// attribute holds a {raw, encoded} pair and raw is the human-facing value.
func projectIndyValues(values AnyValue) []Claim {
	var claims []Claim
	for _, field := range values.Fields() {
		raw, ok := field.Value.Field("raw")
		if !ok {
			continue
		}
		value, ok := coerceString(raw)
		if !ok {
			continue
		}
		claims = append(claims, Claim{Label: field.Key, Value: value})
	}
	return claims
}

func coerceString(v AnyValue) (string, bool) {
	if s, ok := v.StringValue(); ok {
		return s, ok
	}
	// cast covers remaining scalar-ish cases uniformly; containers stay out
	s, err := cast.ToStringE(v.Interface())
	if err != nil || s == "" && v.Kind() != AnyString {
		return "", false
	}
	return s, true
}

func credentialSubjectOf(doc AnyValue) (AnyValue, bool) {
	if cred, ok := doc.Field("credential"); ok {
		if subject, ok := cred.Field("credentialSubject"); ok && subject.Kind() == AnyObject {
			return subject, true
		}
	}
	if subject, ok := doc.Field("credentialSubject"); ok && subject.Kind() == AnyObject {
		return subject, true
	}
	return AnyValue{}, false
}
