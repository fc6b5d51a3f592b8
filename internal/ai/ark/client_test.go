package ark

import (
	"context"
	"testing"
)

func TestNewGeneratorValidatesConfig(t *testing.T) {
	if _, err := NewGenerator(context.Background(), Config{Model: "m"}, nil); err == nil {
		t.Fatal("expected error without api key")
	}
	if _, err := NewGenerator(context.Background(), Config{APIKey: "k"}, nil); err == nil {
		t.Fatal("expected error without model")
	}
}
