package dto

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"
)

func TestErrorResponse_ErrorAndJSON(t *testing.T) {
	cases := []struct {
		name     string
		inner    error
		wantErr  string
		wantJSON string
		omitted  string
	}{
		{name: "message only", wantErr: "ticker is required", wantJSON: `"message":"ticker is required"`, omitted: "error_details"},
		{name: "with cause", inner: errors.New("parsing time"), wantErr: "ticker is required: parsing time", wantJSON: `"error_details":"parsing time"`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			before := time.Now().UTC()
			e := NewErrorResponse("ticker is required", tc.inner)
			if e.Error() != tc.wantErr {
				t.Fatalf("Error() = %q, want %q", e.Error(), tc.wantErr)
			}
			if e.Timestamp.Before(before) || e.Timestamp.Location() != time.UTC {
				t.Fatalf("timestamp not stamped in UTC: %v", e.Timestamp)
			}
			b, err := json.Marshal(e)
			if err != nil {
				t.Fatalf("marshal: %v", err)
			}
			if !strings.Contains(string(b), tc.wantJSON) {
				t.Fatalf("body %s missing %s", b, tc.wantJSON)
			}
			if tc.omitted != "" && strings.Contains(string(b), tc.omitted) {
				t.Fatalf("body %s must omit %s", b, tc.omitted)
			}
		})
	}
}

func TestFactorPoint_JSON(t *testing.T) {
	v := 10.5
	cases := []struct {
		name string
		p    FactorPoint
		want string
	}{
		{name: "finite", p: FactorPoint{Time: 93101, Value: &v}, want: `{"time":93101,"value":10.5}`},
		{name: "null", p: FactorPoint{Time: 93100}, want: `{"time":93100,"value":null}`},
		{name: "infinite", p: FactorPoint{Time: 93230, Infinite: "+Inf"}, want: `{"time":93230,"value":null,"infinite":"+Inf"}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			b, err := json.Marshal(tc.p)
			if err != nil {
				t.Fatalf("marshal: %v", err)
			}
			if string(b) != tc.want {
				t.Fatalf("got %s want %s", b, tc.want)
			}
		})
	}
}
