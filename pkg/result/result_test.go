package result_test

import (
	"testing"

	"github.com/talentlink-app/talentlink_be/pkg/result"
)

func TestOkCarriesValue(t *testing.T) {
	r := result.Ok(42)

	if !r.IsSuccess() {
		t.Fatal("Ok result should be a success")
	}
	if r.Value() != 42 {
		t.Fatalf("expected 42, got %d", r.Value())
	}
	if r.Err() != nil {
		t.Fatalf("success result should have nil error, got %v", r.Err())
	}
}

func TestFailCarriesError(t *testing.T) {
	r := result.Fail[string](result.NotFound("404", "match not found"))

	if r.IsSuccess() {
		t.Fatal("Fail result should not be a success")
	}
	err := r.Err()
	if err == nil {
		t.Fatal("expected an error")
	}
	if err.Code != "404" || err.Kind != result.KindNotFound {
		t.Fatalf("unexpected error: %+v", err)
	}
}

func TestValueOnFailurePanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("Value() on a failed result must panic")
		}
	}()

	r := result.Fail[int](result.Failure("400", "bad input"))
	_ = r.Value()
}

func TestFailWithNilErrorPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("Fail(nil) must panic")
		}
	}()

	_ = result.Fail[int](nil)
}

func TestHTTPStatusPerKind(t *testing.T) {
	cases := []struct {
		err  *result.Error
		want int
	}{
		{result.NotFound("404", "x"), 404},
		{result.Conflict("409", "x"), 409},
		{result.Failure("400", "x"), 400},
		{result.Unauthorized("401", "x"), 401},
		{result.Forbidden("403", "x"), 403},
	}

	for _, tc := range cases {
		if got := tc.err.HTTPStatus(); got != tc.want {
			t.Errorf("kind %s: expected %d, got %d", tc.err.Kind, tc.want, got)
		}
	}
}
