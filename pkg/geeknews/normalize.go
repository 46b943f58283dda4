package geeknews

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrStructuralMismatch は、必須フィールドが見つからない、または解釈できないことを示します。
var ErrStructuralMismatch = errors.New("ページ構造が想定と一致しません")

// RowError は一覧ページの特定の行で必須フィールドの抽出に失敗したことを示します。
type RowError struct {
	Row   int    // 0始まりの行番号
	Field string // 失敗したフィールド名
	Err   error
}

func (e *RowError) Error() string {
	return fmt.Sprintf("%d行目のフィールド %q の抽出に失敗しました: %v", e.Row+1, e.Field, e.Err)
}

func (e *RowError) Unwrap() error { return e.Err }

// parseStrictCount は数字のみで構成された文字列を非負整数に変換します。
func parseStrictCount(s string) (int, error) {
	s = strings.TrimSpace(s)
	if !strictDigits.MatchString(s) {
		return 0, fmt.Errorf("%w: 数値ではありません: %q", ErrStructuralMismatch, s)
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrStructuralMismatch, err)
	}
	return n, nil
}

// leadingCount は文字列中の最初の数字列を整数として返します。見つからない場合は 0 です。
func leadingCount(s string) int {
	m := digitsPattern.FindString(s)
	if m == "" {
		return 0
	}
	n, err := strconv.Atoi(m)
	if err != nil {
		return 0
	}
	return n
}

// absoluteURL は "/" で始まる相対パスにオリジンを付与します。それ以外はそのまま返します。
func absoluteURL(origin, href string) string {
	if strings.HasPrefix(href, "/") {
		return strings.TrimRight(origin, "/") + href
	}
	return href
}
