package stream

import (
	"context"
	"slices"
	"strings"
	"testing"
)

func divideByTwo(n int) int {
	return n / 2
}

func isNonZero(n int) bool {
	return n != 0
}

func TestStream1(t *testing.T) {
	data := []int{0, 2, 4, 6, 8}
	ctx := context.Background()
	myStream := Slice(ctx, data)
	result := Collect(ctx,
		Transform(ctx, divideByTwo,
			Filter(ctx, isNonZero,
				myStream)))

	if !slices.Equal([]int{1, 2, 3, 4}, result) {
		t.Errorf("Expected [1, 2, 3, 4], got %v", result)
	}
}

func TestNDJSON(t *testing.T) {
	type record struct {
		Name string `json:"name"`
	}
	in := strings.NewReader(`{"name":"a"}
{"name":"b"}
{"name":"c"}
`)
	ctx := context.Background()
	result := Collect(ctx, NDJSON[record](ctx, in))
	if len(result) != 3 || result[0].Name != "a" || result[2].Name != "c" {
		t.Errorf("Expected 3 records a..c, got %v", result)
	}
}

func TestNDJSON_SyntaxErrorEndsStream(t *testing.T) {
	type record struct {
		Name string `json:"name"`
	}
	in := strings.NewReader(`{"name":"a"}
not json at all
{"name":"c"}
`)
	ctx := context.Background()
	result := Collect(ctx, NDJSON[record](ctx, in))
	if len(result) != 1 || result[0].Name != "a" {
		t.Errorf("Expected stream to end at the bad line, got %v", result)
	}
}

func TestSink(t *testing.T) {
	data := []int{1, 2, 3}
	ctx := context.Background()
	sum := 0
	Sink(ctx, func(n int) { sum += n }, Slice(ctx, data))
	if sum != 6 {
		t.Errorf("Expected 6, got %d", sum)
	}
}
