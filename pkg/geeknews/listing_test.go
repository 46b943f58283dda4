package geeknews

import (
	"encoding/json"
	"errors"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseListing_WellFormedRows(t *testing.T) {
	markup := listingPage(
		listingRow("123", "10", "댓글 4개"),
		listingRow("124", "5", ""),
	)

	articles, err := ParseListing([]byte(markup))
	require.NoError(t, err)
	require.Len(t, articles, 2)

	assert.Equal(t, ArticleSummary{
		ID:                "123",
		Title:             "Title 123",
		OriginalSourceURL: "https://example.com/post/123",
		Description:       "Description 123",
		Points:            10,
		Author:            "user123",
		TimeAgo:           "3 hours ago",
		CommentsCount:     4,
	}, articles[0])

	assert.Equal(t, "124", articles[1].ID)
	assert.Equal(t, 5, articles[1].Points)
	assert.Equal(t, 0, articles[1].CommentsCount, "コメントリンクが無い場合は0")

	idPattern := regexp.MustCompile(`^\d+$`)
	for _, a := range articles {
		assert.Regexp(t, idPattern, a.ID)
	}
}

func TestParseListing_SoftFields(t *testing.T) {
	// タイトル・説明・作者などが欠けていても、id と points があれば行は成立する
	markup := listingPage(`
<div class='topic_row'>
  <span id='vote77'></span>
  <div class='topicinfo'><span>3</span><a class='u'>discuss</a></div>
</div>`)

	articles, err := ParseListing([]byte(markup))
	require.NoError(t, err)
	require.Len(t, articles, 1)

	a := articles[0]
	assert.Equal(t, "77", a.ID)
	assert.Equal(t, 3, a.Points)
	assert.Equal(t, "", a.Title)
	assert.Equal(t, "", a.OriginalSourceURL)
	assert.Equal(t, "", a.Description)
	assert.Equal(t, "discuss", a.Author, "最初のアンカーが作者として扱われる")
	assert.Equal(t, "", a.TimeAgo)
	assert.Equal(t, 0, a.CommentsCount, "数字が無いコメント数は0")
}

func TestParseListing_CommentsCountOverflow(t *testing.T) {
	markup := listingPage(listingRow("5", "8", "99999999999999999999999 comments"))

	articles, err := ParseListing([]byte(markup))
	require.NoError(t, err)
	require.Len(t, articles, 1)
	assert.Equal(t, 8, articles[0].Points)
	assert.Equal(t, 0, articles[0].CommentsCount, "整数の範囲を超えるコメント数は0")
}

func TestParseListing_StrictFields(t *testing.T) {
	tests := []struct {
		name        string
		markup      string
		expectedRow int
		field       string
	}{
		{
			name: "id_missing_in_second_row",
			markup: listingPage(
				listingRow("1", "10", ""),
				`<div class='topic_row'><div class='topicinfo'><span>4</span></div></div>`,
			),
			expectedRow: 1,
			field:       "id",
		},
		{
			name:        "id_without_digits",
			markup:      listingPage(`<div class='topic_row'><span id='vote'></span><div class='topicinfo'><span>4</span></div></div>`),
			expectedRow: 0,
			field:       "id",
		},
		{
			name:        "points_not_numeric",
			markup:      listingPage(listingRow("9", "many", "")),
			expectedRow: 0,
			field:       "points",
		},
		{
			name:        "points_negative",
			markup:      listingPage(listingRow("9", "-3", "")),
			expectedRow: 0,
			field:       "points",
		},
		{
			name:        "points_node_missing",
			markup:      listingPage(`<div class='topic_row'><span id='vote9'></span></div>`),
			expectedRow: 0,
			field:       "points",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			articles, err := ParseListing([]byte(tc.markup))
			require.Error(t, err)
			assert.Nil(t, articles)
			assert.True(t, errors.Is(err, ErrStructuralMismatch))

			var rowErr *RowError
			require.True(t, errors.As(err, &rowErr))
			assert.Equal(t, tc.expectedRow, rowErr.Row)
			assert.Equal(t, tc.field, rowErr.Field)
		})
	}
}

func TestParseListing_NoRows(t *testing.T) {
	articles, err := ParseListing([]byte(`<html><body><p>maintenance</p></body></html>`))
	require.NoError(t, err)
	assert.NotNil(t, articles)
	assert.Empty(t, articles)
}

func TestParseListing_Idempotent(t *testing.T) {
	markup := []byte(listingPage(listingRow("123", "10", "2 comments"), listingRow("124", "5", "")))

	first, err := ParseListing(markup)
	require.NoError(t, err)
	second, err := ParseListing(markup)
	require.NoError(t, err)

	a, err := json.Marshal(listSuccess(1, first))
	require.NoError(t, err)
	b, err := json.Marshal(listSuccess(1, second))
	require.NoError(t, err)
	assert.Equal(t, string(a), string(b))
}

func TestListURL(t *testing.T) {
	assert.Equal(t, "https://news.hada.io/?page=3", ListURL(DefaultOrigin, 3))
	assert.Equal(t, "http://localhost:8080/?page=1", ListURL("http://localhost:8080/", 1))
}
