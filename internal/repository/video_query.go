package repository

import "fmt"

// 分页默认值与上限
const (
	DefaultPageSize = 10
	MaxPageSize     = 100
)

// 排序字段白名单：对外暴露的字段名 → 实际数据库列
var allowedSortFields = map[string]string{
	"views":      "view_count",
	"duration":   "duration",
	"created_at": "created_at",
}

// VideoQuery 视频列表查询配置。阶段顺序固定：
// 文本匹配 → 等值过滤（作者、发布状态）→ 统计总数 → 排序 → 作者联查 → 分页。
type VideoQuery struct {
	Q             string // 可选：标题+描述模糊匹配
	AuthorID      *int64 // 可选：按作者过滤
	PublishedOnly bool   // 列表视图必须只含已发布视频
	SortBy        string // 白名单字段，默认 created_at
	SortOrder     string // asc / desc，默认 desc
	Page          int    // 从 1 开始
	PageSize      int
	WithAuthor    bool // 是否预加载作者
}

// Normalize 校验并回填默认值：非法排序字段回退到 created_at desc，
// 页码和页大小收敛到合法区间。
func (q *VideoQuery) Normalize() {
	if _, ok := allowedSortFields[q.SortBy]; !ok {
		q.SortBy = "created_at"
	}
	if q.SortOrder != "asc" {
		q.SortOrder = "desc"
	}
	if q.Page < 1 {
		q.Page = 1
	}
	if q.PageSize < 1 {
		q.PageSize = DefaultPageSize
	}
	if q.PageSize > MaxPageSize {
		q.PageSize = MaxPageSize
	}
}

// OrderClause 返回排序子句
func (q *VideoQuery) OrderClause() string {
	return fmt.Sprintf("%s %s", allowedSortFields[q.SortBy], q.SortOrder)
}

// Offset 返回分页偏移量
func (q *VideoQuery) Offset() int {
	return (q.Page - 1) * q.PageSize
}
