package eval

import (
	"errors"
	"io/fs"
	"testing"
	"testing/fstest"

	"github.com/wilhg/stepviz/pkg/algorithms/catalog"
	"github.com/wilhg/stepviz/pkg/trace"
)

func TestEvaluateFixtures(t *testing.T) {
	reg, err := catalog.Default()
	if err != nil {
		t.Fatal(err)
	}
	m := trace.NewMaterializer()
	fsys := fstest.MapFS{
		"cases/bubble.json": {Data: []byte(`{"name":"bubble","algorithm":"bubble-sort","input":{"values":[5,2,4]},"expect":{"values":[2,4,5],"result":"[2, 4, 5]","min_events":3}}`)},
		"cases/fib.json":    {Data: []byte(`{"algorithm":"fibonacci","input":{"values":[]},"params":{"n":10},"expect":{"result":"55"}}`)},
		"cases/bad.json":    {Data: []byte(`{"name":"bad","algorithm":"bubble-sort","input":{"values":[1]},"expect":{"error":"invalid_input"}}`)},
		"cases/notes.md":    {Data: []byte("ignored")},
	}
	score, total, passed, details, err := EvaluateFixtures(t.Context(), reg, m, fsys, "cases")
	if err != nil {
		t.Fatal(err)
	}
	if total != 3 || passed != 3 || score != 1 {
		t.Fatalf("score=%v total=%d passed=%d details=%v", score, total, passed, details)
	}

	// a wrong expectation fails with a detail line
	failing := fstest.MapFS{
		"cases/x.json": {Data: []byte(`{"name":"x","algorithm":"bubble-sort","input":{"values":[3,1]},"expect":{"values":[3,1]}}`)},
		"cases/y.json": {Data: []byte(`{"name":"y","algorithm":"nope","input":{}}`)},
	}
	score2, total2, passed2, details2, _ := EvaluateFixtures(t.Context(), reg, m, failing, "cases")
	if total2 != 2 || passed2 != 0 || score2 != 0 || len(details2) != 2 {
		t.Fatalf("expected failure: score=%v total=%d passed=%d details=%v", score2, total2, passed2, details2)
	}

	// empty directory -> score 1 with 0 tests
	empty := fstest.MapFS{}
	s3, tot3, pass3, _, err := EvaluateFixtures(t.Context(), reg, m, empty, "cases")
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		t.Fatalf("unexpected err: %v", err)
	}
	if err == nil && !(s3 == 1 && tot3 == 0 && pass3 == 0) {
		t.Fatalf("empty ok: score=%v total=%d passed=%d", s3, tot3, pass3)
	}
}
