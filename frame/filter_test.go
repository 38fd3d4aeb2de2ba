package frame

import "testing"

func TestFilterMatches(t *testing.T) {
	tests := []struct {
		name   string
		filter Filter
		doc    Document
		want   bool
	}{
		{
			name:   "OpEqual string match",
			filter: Eq("group", String("Control")),
			doc:    Document{"group": String("Control")},
			want:   true,
		},
		{
			name:   "OpEqual string no match",
			filter: Eq("group", String("Control")),
			doc:    Document{"group": String("Case")},
			want:   false,
		},
		{
			name:   "OpEqual int match",
			filter: Eq("age", Int(31)),
			doc:    Document{"age": Int(31)},
			want:   true,
		},
		{
			name:   "OpEqual mixed numeric kinds",
			filter: Eq("age", Int(31)),
			doc:    Document{"age": Float(31)},
			want:   true,
		},
		{
			name:   "OpNotEqual",
			filter: Ne("sex", String("Male")),
			doc:    Document{"sex": String("Female")},
			want:   true,
		},
		{
			name:   "OpGreaterThan",
			filter: Gt("age", Int(30)),
			doc:    Document{"age": Int(45)},
			want:   true,
		},
		{
			name:   "OpGreaterThan false",
			filter: Gt("age", Int(30)),
			doc:    Document{"age": Int(25)},
			want:   false,
		},
		{
			name:   "OpGreaterEqual equal",
			filter: Gte("age", Int(18)),
			doc:    Document{"age": Int(18)},
			want:   true,
		},
		{
			name:   "OpLessThan",
			filter: Lt("age", Int(30)),
			doc:    Document{"age": Int(22)},
			want:   true,
		},
		{
			name:   "OpLessThan float vs int",
			filter: Lt("score", Float(0.5)),
			doc:    Document{"score": Float(0.25)},
			want:   true,
		},
		{
			name:   "OpLessEqual equal",
			filter: Lte("age", Int(30)),
			doc:    Document{"age": Int(30)},
			want:   true,
		},
		{
			name:   "OpIn match",
			filter: In("group", String("Case"), String("Control")),
			doc:    Document{"group": String("Control")},
			want:   true,
		},
		{
			name:   "OpIn no match",
			filter: In("group", String("Case"), String("Control")),
			doc:    Document{"group": String("Reference")},
			want:   false,
		},
		{
			name:   "OpContains substring",
			filter: Contains("tissue", "blood"),
			doc:    Document{"tissue": String("whole blood")},
			want:   true,
		},
		{
			name:   "OpContains not found",
			filter: Contains("tissue", "liver"),
			doc:    Document{"tissue": String("whole blood")},
			want:   false,
		},
		{
			name:   "Null never compares greater",
			filter: Gt("age", Int(10)),
			doc:    Document{"age": Null()},
			want:   false,
		},
		{
			name:   "Null equals null",
			filter: Eq("age", Null()),
			doc:    Document{"age": Null()},
			want:   true,
		},
		{
			name:   "Key not present",
			filter: Eq("missing", String("x")),
			doc:    Document{"other": String("value")},
			want:   false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.filter.Matches(tt.doc)
			if got != tt.want {
				t.Errorf("Filter.Matches() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestFilterSetMatches(t *testing.T) {
	tests := []struct {
		name      string
		filterSet *FilterSet
		doc       Document
		want      bool
	}{
		{
			name: "All filters match",
			filterSet: NewFilterSet(
				Eq("group", String("Control")),
				Lt("age", Int(30)),
			),
			doc:  Document{"group": String("Control"), "age": Int(25)},
			want: true,
		},
		{
			name: "One filter fails",
			filterSet: NewFilterSet(
				Eq("group", String("Control")),
				Lt("age", Int(30)),
			),
			doc:  Document{"group": String("Control"), "age": Int(45)},
			want: false,
		},
		{
			name:      "Empty filter set matches everything",
			filterSet: NewFilterSet(),
			doc:       Document{"anything": String("goes")},
			want:      true,
		},
		{
			name: "Three covariates",
			filterSet: NewFilterSet(
				In("group", String("Case"), String("Control")),
				Gte("age", Int(18)),
				Eq("sex", String("Female")),
			),
			doc: Document{
				"group": String("Case"),
				"age":   Int(25),
				"sex":   String("Female"),
			},
			want: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.filterSet.Matches(tt.doc)
			if got != tt.want {
				t.Errorf("FilterSet.Matches() = %v, want %v", got, tt.want)
			}
		})
	}
}
