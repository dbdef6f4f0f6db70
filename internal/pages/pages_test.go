package pages

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"footerCheck/internal/browser"
)

func TestDefaultCatalog(t *testing.T) {
	c := Default()
	require.NoError(t, c.Validate())

	assert.Len(t, c.Pages, 7)
	assert.Len(t, c.Default, 10)
	assert.Len(t, c.Special, 5)
	assert.Equal(t, BaseURL, c.Pages[0])
}

func TestElementsFor(t *testing.T) {
	c := Default()

	assert.Equal(t, c.Special, c.ElementsFor(JobURL))
	assert.Equal(t, c.Special, c.ElementsFor(ContactsURL))
	assert.True(t, c.IsSpecial(JobURL))

	for _, url := range []string{BaseURL, ProjectsURL, CompanyURL, FieldsURL, BlogURL} {
		assert.Len(t, c.ElementsFor(url), 10, url)
		assert.False(t, c.IsSpecial(url), url)
	}

	// сравнение точное, без нормализации слеша
	assert.Len(t, c.ElementsFor(JobURL+"/"), 10)
}

func TestParseOverridesPages(t *testing.T) {
	c, err := Parse([]byte(`
pages:
  - https://only.digital
  - https://only.digital/job
special:
  - name: COPYRIGHTS
    strategy: css
    expression: "footer > div[class*='copyrights']"
`))
	require.NoError(t, err)

	assert.Equal(t, []string{BaseURL, JobURL}, c.Pages)
	assert.Len(t, c.Special, 1)
	assert.Len(t, c.Default, 10)
	assert.Equal(t, OkCookieButton, c.Consent)
	assert.Len(t, c.ElementsFor(JobURL), 1)
}

func TestParseRejectsBadLocator(t *testing.T) {
	_, err := Parse([]byte(`
default:
  - name: LINK
    expression: "https://vk.com"
`))
	assert.Error(t, err)

	_, err = Parse([]byte("pages: [unterminated"))
	assert.Error(t, err)
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pages.yaml")
	require.NoError(t, os.WriteFile(path, []byte("pages: [\"https://only.digital/blog\"]\n"), 0o644))

	c, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, []string{BlogURL}, c.Pages)
	assert.Equal(t, []browser.Locator{Copyrights, BehanceButton, DprofileButton, TelegramButton, VKButton}, c.Special)

	_, err = LoadFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
