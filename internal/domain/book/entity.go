package book

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"
)

// JSON字段名
const (
	fieldASIN      = "asin"
	fieldCategory  = "category"
	fieldComments  = "comments"
	fieldCommentID = "commentID"
	fieldUserName  = "userName"
	fieldText      = "text"
	fieldCreatedAt = "createdAt"
)

// Book 图书实体（聚合根）
// DDD设计说明：
// 1. 集合中的图书没有固定结构，除了asin/category/comments外客户端可以携带任意字段
// 2. 已知字段解析为强类型，其余字段原样保存在Fields中（json.RawMessage，不做二次编码）
// 3. 已知字段类型不符时（如category是数字）视为缺失，原值保留在Fields中，写回时不丢失
// 4. ASIN作为业务唯一标识，由领域服务在创建时保证唯一
type Book struct {
	ASIN     string                     // 亚马逊标准识别号
	Category *string                    // 分类（可选）
	Comments []*Comment                 // 评论列表（可选，nil表示从未有过评论）
	Fields   map[string]json.RawMessage // 其余客户端字段
}

// Comment 评论实体（属于Book聚合）
type Comment struct {
	ID        string    // commentID，在所属图书内唯一
	UserName  string    // 评论人
	Text      string    // 评论内容
	CreatedAt time.Time // 服务端生成的创建时间（UTC）
	Fields    map[string]json.RawMessage
}

// InCategory 判断图书是否属于指定分类（区分大小写的精确匹配）
func (b *Book) InCategory(category string) bool {
	return b.Category != nil && *b.Category == category
}

// CommentList 返回评论列表，没有评论时返回空切片（序列化为[]而不是null）
func (b *Book) CommentList() []*Comment {
	if b.Comments == nil {
		return []*Comment{}
	}
	return b.Comments
}

// HasComment 判断评论ID是否已存在
func (b *Book) HasComment(id string) bool {
	for _, c := range b.Comments {
		if c.ID == id {
			return true
		}
	}
	return false
}

// AppendComment 追加评论，首次评论时初始化列表
func (b *Book) AppendComment(c *Comment) {
	b.Comments = append(b.Comments, c)
}

// RemoveComment 删除所有ID匹配的评论，返回删除数量
func (b *Book) RemoveComment(id string) int {
	if len(b.Comments) == 0 {
		return 0
	}
	kept := make([]*Comment, 0, len(b.Comments))
	for _, c := range b.Comments {
		if c.ID != id {
			kept = append(kept, c)
		}
	}
	removed := len(b.Comments) - len(kept)
	b.Comments = kept
	return removed
}

// Merge 浅合并（领域行为）
// 业务规则：
// - patch的顶层字段覆盖原有字段，嵌套对象整体替换，不做深合并
// - asin不可修改，patch中的asin被忽略
// - patch中没有的字段保持不变
func (b *Book) Merge(patch map[string]json.RawMessage) error {
	doc, err := b.document()
	if err != nil {
		return err
	}
	for k, v := range patch {
		if k == fieldASIN {
			continue
		}
		doc[k] = v
	}

	var merged Book
	if err := merged.fromDocument(doc); err != nil {
		return err
	}
	*b = merged
	return nil
}

// MarshalJSON 已知字段覆盖Fields中的同名字段
func (b Book) MarshalJSON() ([]byte, error) {
	doc, err := b.document()
	if err != nil {
		return nil, err
	}
	return json.Marshal(doc)
}

// UnmarshalJSON 只接受JSON对象
func (b *Book) UnmarshalJSON(data []byte) error {
	var doc map[string]json.RawMessage
	if err := json.Unmarshal(data, &doc); err != nil {
		return err
	}
	if doc == nil {
		return fmt.Errorf("book must be a JSON object")
	}
	return b.fromDocument(doc)
}

func (b *Book) document() (map[string]json.RawMessage, error) {
	doc := make(map[string]json.RawMessage, len(b.Fields)+3)
	for k, v := range b.Fields {
		doc[k] = v
	}
	if b.ASIN != "" {
		if err := putJSON(doc, fieldASIN, b.ASIN); err != nil {
			return nil, err
		}
	}
	if b.Category != nil {
		if err := putJSON(doc, fieldCategory, *b.Category); err != nil {
			return nil, err
		}
	}
	if b.Comments != nil {
		if err := putJSON(doc, fieldComments, b.Comments); err != nil {
			return nil, err
		}
	}
	return doc, nil
}

func (b *Book) fromDocument(doc map[string]json.RawMessage) error {
	*b = Book{}

	if s, ok := takeString(doc, fieldASIN); ok {
		b.ASIN = s
	}
	if s, ok := takeString(doc, fieldCategory); ok {
		b.Category = &s
	}
	if raw, ok := doc[fieldComments]; ok && isArray(raw) {
		var comments []*Comment
		if err := json.Unmarshal(raw, &comments); err == nil && !hasNil(comments) {
			b.Comments = comments
			delete(doc, fieldComments)
		}
	}
	if len(doc) > 0 {
		b.Fields = doc
	}
	return nil
}

// MarshalJSON 评论序列化
func (c Comment) MarshalJSON() ([]byte, error) {
	doc := make(map[string]json.RawMessage, len(c.Fields)+4)
	for k, v := range c.Fields {
		doc[k] = v
	}
	if c.ID != "" {
		if err := putJSON(doc, fieldCommentID, c.ID); err != nil {
			return nil, err
		}
	}
	if c.UserName != "" {
		if err := putJSON(doc, fieldUserName, c.UserName); err != nil {
			return nil, err
		}
	}
	if c.Text != "" {
		if err := putJSON(doc, fieldText, c.Text); err != nil {
			return nil, err
		}
	}
	if !c.CreatedAt.IsZero() {
		if err := putJSON(doc, fieldCreatedAt, c.CreatedAt); err != nil {
			return nil, err
		}
	}
	return json.Marshal(doc)
}

// UnmarshalJSON 评论反序列化，只接受JSON对象
func (c *Comment) UnmarshalJSON(data []byte) error {
	var doc map[string]json.RawMessage
	if err := json.Unmarshal(data, &doc); err != nil {
		return err
	}
	if doc == nil {
		return fmt.Errorf("comment must be a JSON object")
	}

	*c = Comment{}
	if s, ok := takeString(doc, fieldCommentID); ok {
		c.ID = s
	}
	if s, ok := takeString(doc, fieldUserName); ok {
		c.UserName = s
	}
	if s, ok := takeString(doc, fieldText); ok {
		c.Text = s
	}
	if s, ok := peekString(doc, fieldCreatedAt); ok {
		if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
			c.CreatedAt = t
			delete(doc, fieldCreatedAt)
		}
	}
	if len(doc) > 0 {
		c.Fields = doc
	}
	return nil
}

// EncodeCollection 集合序列化为JSON数组（所有存储后端共用的格式）
func EncodeCollection(books []*Book) ([]byte, error) {
	if books == nil {
		books = []*Book{}
	}
	return json.MarshalIndent(books, "", "  ")
}

// DecodeCollection 解析JSON数组，空数据视为空集合
func DecodeCollection(data []byte) ([]*Book, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return []*Book{}, nil
	}
	var books []*Book
	if err := json.Unmarshal(data, &books); err != nil {
		return nil, fmt.Errorf("decode book collection: %w", err)
	}
	result := make([]*Book, 0, len(books))
	for _, b := range books {
		if b != nil {
			result = append(result, b)
		}
	}
	return result, nil
}

// =========================================
// 辅助函数
// =========================================

func putJSON(doc map[string]json.RawMessage, key string, v interface{}) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	doc[key] = raw
	return nil
}

// peekString 字段存在且是JSON字符串时返回其值
func peekString(doc map[string]json.RawMessage, key string) (string, bool) {
	raw, ok := doc[key]
	if !ok {
		return "", false
	}
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || trimmed[0] != '"' {
		return "", false
	}
	var s string
	if err := json.Unmarshal(trimmed, &s); err != nil {
		return "", false
	}
	return s, true
}

// takeString 同peekString，取到非空字符串时从doc中移除该字段
// 空字符串留在doc中，编码时由Fields原样写回（强类型字段为空时不输出）
func takeString(doc map[string]json.RawMessage, key string) (string, bool) {
	s, ok := peekString(doc, key)
	if ok && s != "" {
		delete(doc, key)
	}
	return s, ok
}

func isArray(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) > 0 && trimmed[0] == '['
}

func hasNil(comments []*Comment) bool {
	for _, c := range comments {
		if c == nil {
			return true
		}
	}
	return false
}
