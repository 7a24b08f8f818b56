package query_test

import (
	"reflect"
	"testing"

	"github.com/JaimeStill/rankwise/pkg/query"
)

const cutoffColumns = "SELECT c.id, c.institute, c.branch, c.closing_rank FROM public.cutoffs c"

func cutoffProjection() *query.ProjectionMap {
	return query.NewProjectionMap("public", "cutoffs", "c").
		Project("id", "ID").
		Project("institute", "Institute").
		Project("branch", "Branch").
		Project("closing_rank", "ClosingRank")
}

func text(s string) *string { return &s }

func TestProjectionMap(t *testing.T) {
	p := cutoffProjection()

	if got := p.Table(); got != "public.cutoffs c" {
		t.Errorf("Table() = %q", got)
	}
	if got := p.Alias(); got != "c" {
		t.Errorf("Alias() = %q", got)
	}
	want := []string{"c.id", "c.institute", "c.branch", "c.closing_rank"}
	if got := p.ColumnList(); !reflect.DeepEqual(got, want) {
		t.Errorf("ColumnList() = %v, want %v", got, want)
	}
	if got := p.Columns(); got != "c.id, c.institute, c.branch, c.closing_rank" {
		t.Errorf("Columns() = %q", got)
	}
}

func TestProjectionMapResolvesNames(t *testing.T) {
	p := cutoffProjection()

	tests := []struct {
		name   string
		want   string
		mapped bool
	}{
		{"ClosingRank", "c.closing_rank", true},
		{"closing_rank", "c.closing_rank", true},
		{"Branch", "c.branch", true},
		{"quota", "quota", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			col, ok := p.Lookup(tt.name)
			if ok != tt.mapped {
				t.Fatalf("Lookup(%q) ok = %v, want %v", tt.name, ok, tt.mapped)
			}
			if ok && col != tt.want {
				t.Errorf("Lookup(%q) = %q, want %q", tt.name, col, tt.want)
			}
			if got := p.Column(tt.name); got != tt.want {
				t.Errorf("Column(%q) = %q, want %q", tt.name, got, tt.want)
			}
		})
	}
}

func TestParseSortFields(t *testing.T) {
	tests := []struct {
		in   string
		want []query.SortField
	}{
		{"", nil},
		{" , ", nil},
		{"Branch", []query.SortField{{Field: "Branch"}}},
		{"-ClosingRank", []query.SortField{{Field: "ClosingRank", Descending: true}}},
		{"Institute, -ClosingRank,", []query.SortField{
			{Field: "Institute"},
			{Field: "ClosingRank", Descending: true},
		}},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := query.ParseSortFields(tt.in); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ParseSortFields(%q) = %+v, want %+v", tt.in, got, tt.want)
			}
		})
	}
}

func TestBuilderConditions(t *testing.T) {
	var noBranch *string

	tests := []struct {
		name     string
		build    func(b *query.Builder)
		wantSQL  string
		wantArgs []any
	}{
		{
			name:    "no conditions",
			build:   func(b *query.Builder) {},
			wantSQL: cutoffColumns,
		},
		{
			name:     "equals",
			build:    func(b *query.Builder) { b.WhereEquals("Branch", "CSE") },
			wantSQL:  cutoffColumns + " WHERE c.branch = $1",
			wantArgs: []any{"CSE"},
		},
		{
			name:     "at least",
			build:    func(b *query.Builder) { b.WhereAtLeast("ClosingRank", 1200) },
			wantSQL:  cutoffColumns + " WHERE c.closing_rank >= $1",
			wantArgs: []any{1200},
		},
		{
			name: "nil values skipped",
			build: func(b *query.Builder) {
				b.WhereEquals("Branch", nil).
					WhereEquals("Branch", noBranch).
					WhereAtLeast("ClosingRank", nil)
			},
			wantSQL: cutoffColumns,
		},
		{
			name:     "contains",
			build:    func(b *query.Builder) { b.WhereContains("Institute", text("bombay")) },
			wantSQL:  cutoffColumns + " WHERE c.institute ILIKE $1",
			wantArgs: []any{"%bombay%"},
		},
		{
			name: "empty search skipped",
			build: func(b *query.Builder) {
				b.WhereContains("Institute", text("")).
					WhereSearch(nil, "Institute", "Branch").
					WhereSearch(text("cse"))
			},
			wantSQL: cutoffColumns,
		},
		{
			name:     "search across fields",
			build:    func(b *query.Builder) { b.WhereSearch(text("elec"), "Institute", "Branch") },
			wantSQL:  cutoffColumns + " WHERE (c.institute ILIKE $1 OR c.branch ILIKE $2)",
			wantArgs: []any{"%elec%", "%elec%"},
		},
		{
			name: "combined in order",
			build: func(b *query.Builder) {
				b.WhereSearch(text("iit"), "Institute", "Branch").
					WhereEquals("Branch", "ME").
					WhereAtLeast("ClosingRank", 500)
			},
			wantSQL:  cutoffColumns + " WHERE (c.institute ILIKE $1 OR c.branch ILIKE $2) AND c.branch = $3 AND c.closing_rank >= $4",
			wantArgs: []any{"%iit%", "%iit%", "ME", 500},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := query.NewBuilder(cutoffProjection())
			tt.build(b)
			sql, args := b.Build()
			if sql != tt.wantSQL {
				t.Errorf("sql = %q\nwant  %q", sql, tt.wantSQL)
			}
			if !reflect.DeepEqual(args, tt.wantArgs) {
				t.Errorf("args = %v, want %v", args, tt.wantArgs)
			}
		})
	}
}

func TestBuilderOrdering(t *testing.T) {
	byRank := query.SortField{Field: "ClosingRank"}

	tests := []struct {
		name    string
		deflt   []query.SortField
		request []query.SortField
		want    string
	}{
		{"no sort", nil, nil, ""},
		{"default", []query.SortField{byRank}, nil, " ORDER BY c.closing_rank ASC"},
		{
			"request overrides default",
			[]query.SortField{byRank},
			[]query.SortField{{Field: "Institute"}, {Field: "closing_rank", Descending: true}},
			" ORDER BY c.institute ASC, c.closing_rank DESC",
		},
		{
			"unmapped request fields dropped",
			[]query.SortField{byRank},
			[]query.SortField{{Field: "c.id; DROP TABLE cutoffs"}, {Field: "Branch", Descending: true}},
			" ORDER BY c.branch DESC",
		},
		{
			"all unmapped falls back",
			[]query.SortField{byRank},
			[]query.SortField{{Field: "quota"}},
			" ORDER BY c.closing_rank ASC",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := query.NewBuilder(cutoffProjection(), tt.deflt...).OrderByFields(tt.request)
			sql, _ := b.Build()
			if sql != cutoffColumns+tt.want {
				t.Errorf("sql = %q\nwant  %q", sql, cutoffColumns+tt.want)
			}
		})
	}
}

func TestBuilderCountAndPage(t *testing.T) {
	b := query.NewBuilder(cutoffProjection(), query.SortField{Field: "ClosingRank"}).
		WhereEquals("Branch", "CSE")

	sql, args := b.BuildCount()
	if sql != "SELECT COUNT(*) FROM public.cutoffs c WHERE c.branch = $1" {
		t.Errorf("count sql = %q", sql)
	}
	if !reflect.DeepEqual(args, []any{"CSE"}) {
		t.Errorf("count args = %v", args)
	}

	sql, args = b.BuildPage(3, 20)
	want := cutoffColumns + " WHERE c.branch = $1 ORDER BY c.closing_rank ASC LIMIT 20 OFFSET 40"
	if sql != want {
		t.Errorf("page sql = %q\nwant       %q", sql, want)
	}
	if !reflect.DeepEqual(args, []any{"CSE"}) {
		t.Errorf("page args = %v", args)
	}

	sql, _ = b.BuildPage(1, 50)
	if want := cutoffColumns + " WHERE c.branch = $1 ORDER BY c.closing_rank ASC LIMIT 50 OFFSET 0"; sql != want {
		t.Errorf("first page sql = %q", sql)
	}
}

func TestBuilderSingleRow(t *testing.T) {
	b := query.NewBuilder(cutoffProjection()).WhereEquals("Branch", "EE")

	sql, args := b.BuildSingle("ID", 42)
	if sql != cutoffColumns+" WHERE c.id = $1" {
		t.Errorf("BuildSingle sql = %q", sql)
	}
	if !reflect.DeepEqual(args, []any{42}) {
		t.Errorf("BuildSingle args = %v", args)
	}

	sql, args = b.BuildSingleOrNull()
	if sql != cutoffColumns+" WHERE c.branch = $1 LIMIT 1" {
		t.Errorf("BuildSingleOrNull sql = %q", sql)
	}
	if !reflect.DeepEqual(args, []any{"EE"}) {
		t.Errorf("BuildSingleOrNull args = %v", args)
	}
}

func TestBuilderIsReusable(t *testing.T) {
	b := query.NewBuilder(cutoffProjection()).
		WhereEquals("Branch", "CSE").
		WhereAtLeast("ClosingRank", 100)

	first, firstArgs := b.Build()
	second, secondArgs := b.Build()
	if first != second {
		t.Errorf("second Build differs:\n%q\n%q", first, second)
	}
	if !reflect.DeepEqual(firstArgs, secondArgs) || len(secondArgs) != 2 {
		t.Errorf("args = %v then %v", firstArgs, secondArgs)
	}

	_, countArgs := b.BuildCount()
	if len(countArgs) != 2 {
		t.Errorf("count args = %v, want 2 values", countArgs)
	}
}
