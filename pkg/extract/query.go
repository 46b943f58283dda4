package extract

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Extractor は選択された1ノードから文字列値を取り出します。
// ok が false の場合、その戦略は「値なし」として扱われます。
type Extractor func(s *goquery.Selection) (value string, ok bool)

// Matcher はセレクターで選ばれた候補ノードをさらに絞り込みます。
type Matcher func(s *goquery.Selection) bool

// Strategy はフィールド抽出の1手順です。
//   - Selector が空の場合はルート自身を対象とします。
//   - Match が設定されている場合、候補のうち最初に一致したノードを使います。
type Strategy struct {
	Selector string
	Match    Matcher
	Extract  Extractor
}

// Chain はフォールバック順に並んだ戦略のリストです。
type Chain []Strategy

// Resolve は戦略を順に試し、最初に空でない値を返します。
func (c Chain) Resolve(root *goquery.Selection) (string, bool) {
	if root == nil {
		return "", false
	}
	for _, st := range c {
		node := st.locate(root)
		if node.Length() == 0 {
			continue
		}
		if v, ok := st.Extract(node); ok && v != "" {
			return v, true
		}
	}
	return "", false
}

// ResolveOr は Resolve が失敗した場合に fallback を返します。
func (c Chain) ResolveOr(root *goquery.Selection, fallback string) string {
	if v, ok := c.Resolve(root); ok {
		return v
	}
	return fallback
}

func (st Strategy) locate(root *goquery.Selection) *goquery.Selection {
	candidates := root
	if st.Selector != "" {
		candidates = root.Find(st.Selector)
	}
	if st.Match != nil {
		candidates = candidates.FilterFunction(func(_ int, s *goquery.Selection) bool {
			return st.Match(s)
		})
	}
	return candidates.First()
}

// Count はセレクターに一致するノード数を返します。
func Count(root *goquery.Selection, selector string) int {
	if root == nil {
		return 0
	}
	return root.Find(selector).Length()
}

// ----------------------------------------------------------------------
// 抽出関数
// ----------------------------------------------------------------------

// Text は前後の空白を除いたテキストを返します。
func Text(s *goquery.Selection) (string, bool) {
	return strings.TrimSpace(s.Text()), true
}

// InnerHTML は内部マークアップをそのまま返します。
func InnerHTML(s *goquery.Selection) (string, bool) {
	h, err := s.Html()
	if err != nil {
		return "", false
	}
	return h, true
}

// BlockText は子孫のテキストノードを1行ずつ改行で連結したプレーンテキストを返します。
func BlockText(s *goquery.Selection) (string, bool) {
	return blockText(s), true
}

// Attr は属性値を返します。属性が存在しない場合は値なしです。
func Attr(name string) Extractor {
	return func(s *goquery.Selection) (string, bool) {
		return s.Attr(name)
	}
}

// OwnText は直下の n 番目 (0始まり) のテキストノードをトリムして返します。
// 空白だけのテキストノードも数に含めます。
func OwnText(n int) Extractor {
	return func(s *goquery.Selection) (string, bool) {
		texts := directTextNodes(s)
		if n < 0 || n >= len(texts) {
			return "", false
		}
		return strings.TrimSpace(texts[n]), true
	}
}

// TrimSuffix は抽出結果に suffix が含まれていれば、その手前までをトリムして返します。
func TrimSuffix(ex Extractor, suffix string) Extractor {
	return func(s *goquery.Selection) (string, bool) {
		v, ok := ex(s)
		if !ok {
			return "", false
		}
		if i := strings.Index(v, suffix); i >= 0 {
			v = strings.TrimSpace(v[:i])
		}
		return v, true
	}
}

// Map は抽出結果に変換関数を適用します。
func Map(ex Extractor, fn func(string) string) Extractor {
	return func(s *goquery.Selection) (string, bool) {
		v, ok := ex(s)
		if !ok {
			return "", false
		}
		return fn(v), true
	}
}

// ----------------------------------------------------------------------
// 絞り込み関数
// ----------------------------------------------------------------------

// AttrMatches は属性値が正規表現に一致するノードを選びます。
func AttrMatches(name string, re *regexp.Regexp) Matcher {
	return func(s *goquery.Selection) bool {
		v, ok := s.Attr(name)
		return ok && re.MatchString(v)
	}
}

// AttrEquals は属性値が完全一致するノードを選びます。
// value はセレクターとして解釈されません。
func AttrEquals(name, value string) Matcher {
	return func(s *goquery.Selection) bool {
		v, ok := s.Attr(name)
		return ok && v == value
	}
}
