// Package relevance scores knowledge-base documents against a user query
// with keyword heuristics.
package relevance

import (
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/zhouzirui/medchat/internal/model/medical"
)

// DefaultTopK 是默认返回的文档数量。
const DefaultTopK = 5

// Weights applied per match.
const (
	keywordInQueryWeight = 10
	keywordPartialWeight = 5
	titleTermWeight      = 8
	contentTermWeight    = 2
	// 内容匹配只统计长度大于该值的词。
	minContentTermRunes = 3
)

// Match 是一个带分数的文档。
type Match struct {
	Document medical.Document
	Score    int
}

// Score 计算文档与查询的相关度，0 表示无关。
func Score(query string, doc medical.Document) int {
	q := strings.ToLower(query)
	terms := strings.Fields(q)
	if len(terms) == 0 {
		return 0
	}

	score := 0
	for _, kw := range doc.Keywords {
		keyword := strings.ToLower(kw)
		if strings.Contains(q, keyword) {
			score += keywordInQueryWeight
		}
		for _, term := range terms {
			if strings.Contains(keyword, term) || strings.Contains(term, keyword) {
				score += keywordPartialWeight
			}
		}
	}

	title := strings.ToLower(doc.Title)
	content := strings.ToLower(doc.Content)
	for _, term := range terms {
		if strings.Contains(title, term) {
			score += titleTermWeight
		}
		if utf8.RuneCountInString(term) > minContentTermRunes && strings.Contains(content, term) {
			score += contentTermWeight
		}
	}

	return score
}

// Rank 返回得分最高的 topK 个文档。同分时保持数据集原有顺序。
func Rank(query string, docs []medical.Document, topK int) []Match {
	if topK <= 0 {
		topK = DefaultTopK
	}

	matches := make([]Match, 0, len(docs))
	for _, doc := range docs {
		if s := Score(query, doc); s > 0 {
			matches = append(matches, Match{Document: doc, Score: s})
		}
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Score > matches[j].Score
	})

	if len(matches) > topK {
		matches = matches[:topK]
	}
	return matches
}
