package schema

import "testing"

func TestExtractObject(t *testing.T) {
	cases := []struct {
		in   string
		want string
		ok   bool
	}{
		{`{"a":1}`, `{"a":1}`, true},
		{"note above\n{\"a\":1}\nnote below", `{"a":1}`, true},
		{`{"a":{"b":2}}`, `{"a":{"b":2}}`, true},
		{`{"a":"closing brace } in string"}`, `{"a":"closing brace } in string"}`, true},
		{`{"a":"escaped quote \" then } brace"}`, `{"a":"escaped quote \" then } brace"}`, true},
		{`{"first":1} {"second":2}`, `{"first":1}`, true},
		{"no object here", "", false},
		{"", "", false},
		{`{"never":"closed"`, "", false},
	}
	for _, c := range cases {
		got, ok := ExtractObject(c.in)
		if ok != c.ok || got != c.want {
			t.Fatalf("ExtractObject(%q) = %q, %v; expected %q, %v", c.in, got, ok, c.want, c.ok)
		}
	}
}

func TestNewAuditEntry(t *testing.T) {
	e := NewAuditEntry(Actor{Role: "admin", Name: "Zohir"}, "invoice_paid", map[string]string{"amount": "1500"})
	if e.Role != "admin" || e.Name != "Zohir" || e.Action != "invoice_paid" {
		t.Fatalf("unexpected entry: %+v", e)
	}
	if e.Timestamp == "" {
		t.Fatalf("timestamp must be stamped")
	}
	if e.Meta["amount"] != "1500" {
		t.Fatalf("meta lost: %+v", e.Meta)
	}
}

func TestMalformedRecordError_Message(t *testing.T) {
	withID := &MalformedRecordError{RecordID: "card001", Reason: "bad json"}
	if withID.Error() != "malformed record card001: bad json" {
		t.Fatalf("unexpected message: %s", withID.Error())
	}
	withoutID := &MalformedRecordError{Reason: "bad json"}
	if withoutID.Error() != "malformed record: bad json" {
		t.Fatalf("unexpected message: %s", withoutID.Error())
	}
}
