package content

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMakeSlug(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{"Foo Bar", "foo-bar"},
		{"Hello,   World!", "hello-world"},
		{"Go & Rust: 2024", "go--rust-2024"},
		{"snake_case stays", "snake_case-stays"},
	}

	for i, c := range cases {
		out := MakeSlug(c.in)
		if out != c.want {
			t.Errorf("%d. MakeSlug(%q) = %q; not %q", i, c.in, out, c.want)
		}
	}
}

func TestWrapParagraph(t *testing.T) {
	assert.Equal(t, "<p>hello</p>", WrapParagraph("  hello \n"))
	assert.Equal(t, "<p>already</p>", WrapParagraph(" <p>already</p>"))
}

func TestParseTags(t *testing.T) {
	assert.Equal(t, []string{"go", "web dev"}, ParseTags(" go, ,web dev ,"))
	assert.Empty(t, ParseTags(""))
}

func TestReadTime(t *testing.T) {
	assert.Equal(t, "7 min", ReadTime(7))
	assert.Equal(t, "", ReadTime(0))
}

func TestPrepare(t *testing.T) {
	d := Prepare(Fields{Title: "My First Post", LongDescription: "body"})
	assert.Equal(t, "my-first-post", d.Slug)
	assert.Equal(t, "<p>body</p>", d.LongDescription)

	// Surrounding whitespace becomes dashes like any other run of spaces.
	d = Prepare(Fields{Title: " My First Post "})
	assert.Equal(t, "-my-first-post-", d.Slug)
}
