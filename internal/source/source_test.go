package source

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/runger/tmenu/internal/item"
)

func TestReadAll(t *testing.T) {
	input := "alpha\nbeta\r\n\x1b[31mred\x1b[0m\n"
	entries, err := ReadAll(strings.NewReader(input), Options{})
	require.NoError(t, err)

	require.Len(t, entries, 3)
	assert.Equal(t, "alpha", entries[0].Text)
	assert.Equal(t, "beta", entries[1].Text)
	assert.Equal(t, "red", entries[2].Text)
}

func TestReadAll_SeparatorAndPriority(t *testing.T) {
	input := "home=/home/me\ntmp=/tmp\nnone\n"
	entries, err := ReadAll(strings.NewReader(input), Options{
		Separator: item.Separator{Delim: "="},
		Priority:  []string{"tmp"},
	})
	require.NoError(t, err)

	assert.Equal(t, item.Entry{Text: "home", Secondary: "/home/me"}, entries[0])
	assert.Equal(t, item.Entry{Text: "tmp", Secondary: "/tmp", Priority: true}, entries[1])
	assert.Equal(t, item.Entry{Text: "none"}, entries[2])
}

func TestReadAll_Empty(t *testing.T) {
	entries, err := ReadAll(strings.NewReader(""), Options{})
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestReadAll_LineTooLong(t *testing.T) {
	long := strings.Repeat("x", maxLineSize+1)
	_, err := ReadAll(strings.NewReader(long), Options{})
	assert.Error(t, err)
}

func TestFromStrings(t *testing.T) {
	entries := FromStrings([]string{"a", "b"}, Options{Priority: []string{"b"}})
	assert.Equal(t, []item.Entry{{Text: "a"}, {Text: "b", Priority: true}}, entries)
}

func TestStream(t *testing.T) {
	var sb strings.Builder
	for i := 0; i < batchSize+10; i++ {
		sb.WriteString("line\n")
	}

	ch := Stream(context.Background(), strings.NewReader(sb.String()), Options{})

	total := 0
	timeout := time.After(5 * time.Second)
	for {
		select {
		case batch, ok := <-ch:
			if !ok {
				assert.Equal(t, batchSize+10, total)
				return
			}
			assert.LessOrEqual(t, len(batch), batchSize)
			total += len(batch)
		case <-timeout:
			t.Fatal("stream did not finish")
		}
	}
}

func TestStream_Cancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	r := strings.NewReader(strings.Repeat("x\n", 10))
	ch := Stream(ctx, r, Options{})
	cancel()

	select {
	case <-drain(ch):
	case <-time.After(5 * time.Second):
		t.Fatal("stream not closed after cancel")
	}
}

func drain(ch <-chan []item.Entry) <-chan struct{} {
	done := make(chan struct{})
	go func() {
		for range ch {
		}
		close(done)
	}()
	return done
}

func TestStripANSI(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"plain text", "hello world", "hello world"},
		{"bold", "\x1b[1mhello\x1b[0m", "hello"},
		{"multiple SGR", "\x1b[1;31;42mfancy\x1b[0m", "fancy"},
		{"OSC with BEL", "\x1b]0;title\x07text", "text"},
		{"OSC hyperlink", "\x1b]8;;https://example.com\x07link\x1b]8;;\x07", "link"},
		{"charset", "\x1b(Bhello", "hello"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, StripANSI(tt.input))
		})
	}
}

func TestValidateUTF8(t *testing.T) {
	assert.Equal(t, "hello", ValidateUTF8("hello"))
	assert.Equal(t, "hello�world", ValidateUTF8("hello\x80world"))
	assert.Equal(t, "café", Clean("café"))
}
