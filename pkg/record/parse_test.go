package record

import (
	"reflect"
	"testing"
	"time"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name       string
		payload    string
		wantClass  byte
		wantHeader string
		wantFields []Field
		wantDone   bool
		wantTime   time.Time
		wantErr    bool
	}{
		{
			name:       "header only",
			payload:    "Status-Server\n\n",
			wantClass:  'S',
			wantHeader: "Status-Server",
		},
		{
			name:       "tab separated fields",
			payload:    "Access-Request\n\tUser-Name\t= \"bob\"\n\tNAS-Port\t= 7\n\tTimestamp\t= 1700000000\n\n",
			wantClass:  'A',
			wantHeader: "Access-Request",
			wantFields: []Field{
				{Name: "User-Name", Value: "bob"},
				{Name: "NAS-Port", Value: "7"},
				{Name: "Timestamp", Value: "1700000000"},
			},
			wantTime: time.Unix(1700000000, 0),
		},
		{
			name:       "space separated fields",
			payload:    "Accounting-Request\n\tAcct-Status-Type = Start\n",
			wantClass:  'A',
			wantHeader: "Accounting-Request",
			wantFields: []Field{{Name: "Acct-Status-Type", Value: "Start"}},
		},
		{
			name:       "done marker",
			payload:    "Access-Request\n\tDonestamp\t= 1700000000\n\n",
			wantClass:  'A',
			wantHeader: "Access-Request",
			wantFields: []Field{{Name: "Timestamp", Value: "1700000000"}},
			wantDone:   true,
			wantTime:   time.Unix(1700000000, 0),
		},
		{
			name:       "escaped quotes",
			payload:    "A\n\tReply-Message\t= \"say \\\"hi\\\"\"\n\n",
			wantClass:  'A',
			wantHeader: "A",
			wantFields: []Field{{Name: "Reply-Message", Value: "say \"hi\""}},
		},
		{
			name:       "value containing equals",
			payload:    "A\n\tFilter-Id\t= a=b\n\n",
			wantClass:  'A',
			wantHeader: "A",
			wantFields: []Field{{Name: "Filter-Id", Value: "a=b"}},
		},
		{
			name:       "unparseable timestamp keeps field",
			payload:    "A\n\tTimestamp\t= soon\n\n",
			wantClass:  'A',
			wantHeader: "A",
			wantFields: []Field{{Name: "Timestamp", Value: "soon"}},
		},
		{
			name:    "empty",
			payload: "\n\n",
			wantErr: true,
		},
		{
			name:    "missing header",
			payload: "\tUser-Name\t= bob\n\n",
			wantErr: true,
		},
		{
			name:    "unindented field",
			payload: "A\nUser-Name = bob\n\n",
			wantErr: true,
		},
		{
			name:    "field without equals",
			payload: "A\n\tUser-Name bob\n\n",
			wantErr: true,
		},
		{
			name:    "non-printable header",
			payload: "A\x01\n\n",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parse([]byte(tt.payload))
			if (err != nil) != tt.wantErr {
				t.Fatalf("Parse() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			if got.Class != tt.wantClass {
				t.Errorf("class = %q, want %q", got.Class, tt.wantClass)
			}
			if got.Header != tt.wantHeader {
				t.Errorf("header = %q, want %q", got.Header, tt.wantHeader)
			}
			if !reflect.DeepEqual(got.Fields, tt.wantFields) {
				t.Errorf("fields = %#v, want %#v", got.Fields, tt.wantFields)
			}
			if got.Done != tt.wantDone {
				t.Errorf("done = %v, want %v", got.Done, tt.wantDone)
			}
			if !got.Timestamp.Equal(tt.wantTime) {
				t.Errorf("timestamp = %v, want %v", got.Timestamp, tt.wantTime)
			}
		})
	}
}

func TestFieldAndMap(t *testing.T) {
	rec, err := Parse([]byte("A\n\tClass\t= one\n\tUser-Name\t= bob\n\tClass\t= two\n\n"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	value, ok := rec.Field("Class")
	if !ok || value != "one" {
		t.Errorf("Field(Class) = %q, %v, want one, true", value, ok)
	}
	if _, ok := rec.Field("Missing"); ok {
		t.Errorf("Field(Missing) reported present")
	}

	want := map[string]string{"Class": "two", "User-Name": "bob"}
	if got := rec.Map(); !reflect.DeepEqual(got, want) {
		t.Errorf("Map() = %v, want %v", got, want)
	}
}
