package source

import (
	"encoding/json"
	"testing"
)

func TestFlexStringAcceptsStringAndNumber(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{`"i12345"`, "i12345"},
		{`12345`, "12345"},
		{`null`, ""},
		{`12345678901234`, "12345678901234"}, // stays exact, no float mangling
	}
	for _, tc := range cases {
		var s FlexString
		if err := json.Unmarshal([]byte(tc.in), &s); err != nil {
			t.Fatalf("unmarshal %s: %v", tc.in, err)
		}
		if string(s) != tc.want {
			t.Errorf("FlexString(%s) = %q, want %q", tc.in, s, tc.want)
		}
	}
}

func TestHeartRateNestedAndFlat(t *testing.T) {
	var nested HeartRate
	if err := json.Unmarshal([]byte(`{"average":140,"max":175}`), &nested); err != nil {
		t.Fatalf("nested: %v", err)
	}
	if nested.Average == nil || *nested.Average != 140 || nested.Max == nil || *nested.Max != 175 {
		t.Fatalf("nested = %+v", nested)
	}

	var flat HeartRate
	if err := json.Unmarshal([]byte(`152`), &flat); err != nil {
		t.Fatalf("flat: %v", err)
	}
	if flat.Average == nil || *flat.Average != 152 {
		t.Fatalf("flat average = %v", flat.Average)
	}
	if flat.Max != nil {
		t.Fatalf("flat max should be absent, got %v", *flat.Max)
	}

	var null HeartRate
	if err := json.Unmarshal([]byte(`null`), &null); err != nil {
		t.Fatalf("null: %v", err)
	}
	if null.Average != nil || null.Max != nil {
		t.Fatalf("null = %+v", null)
	}
}

func TestConcept2ResultDecoding(t *testing.T) {
	raw := `{"id":99,"date":"2025-05-10 06:30:00","time":120000,"distance":5000,"stroke_rate":22,"heart_rate":{"average":141,"max":168}}`
	var r Concept2Result
	if err := json.Unmarshal([]byte(raw), &r); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if r.TimeCS == nil || *r.TimeCS != 120000 {
		t.Errorf("time = %v", r.TimeCS)
	}
	if r.HeartRate.Average == nil || *r.HeartRate.Average != 141 {
		t.Errorf("hr = %+v", r.HeartRate)
	}
}

func TestIntervalsActivityStubFields(t *testing.T) {
	raw := `{"id":101,"strava_id":88,"_note":"see network","type":""}`
	var a IntervalsActivity
	if err := json.Unmarshal([]byte(raw), &a); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if string(a.ID) != "101" || string(a.StravaID) != "88" {
		t.Errorf("ids = %q/%q", a.ID, a.StravaID)
	}
	if a.Note != "see network" {
		t.Errorf("note = %q", a.Note)
	}
}
