package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"cliptube/internal/api/dto"
	"cliptube/internal/config"
	infraES "cliptube/internal/infra/elasticsearch"
	"cliptube/internal/model"
	"cliptube/internal/repository"
	"cliptube/pkg/logger"

	"go.uber.org/zap"
)

type SearchService struct {
	videoRepo repository.VideoStore
}

func NewSearchService(videoRepo repository.VideoStore) *SearchService {
	return &SearchService{videoRepo: videoRepo}
}

// SearchVideos 全文搜索已发布视频（ES 优先，失败则降级到数据库模糊匹配）
func (s *SearchService) SearchVideos(req *dto.SearchVideoRequest) (*dto.SearchVideoData, error) {
	req.Page, req.PageSize = normalizePage(req.Page, req.PageSize)

	if infraES.Available() {
		data, err := s.searchFromES(req)
		if err == nil {
			return data, nil
		}
		logger.Warn("ES search failed, fallback to DB", zap.Error(err))
	}

	return s.searchFromDB(req)
}

func (s *SearchService) searchFromES(req *dto.SearchVideoRequest) (*dto.SearchVideoData, error) {
	cfg := config.GetElasticsearch()
	indexName := cfg.Index["videos"]
	if indexName == "" {
		indexName = "videos"
	}

	query := s.buildESQuery(req)
	queryJSON, err := json.Marshal(query)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	resp, err := infraES.Search(ctx, indexName, bytes.NewReader(queryJSON))
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.IsError() {
		return nil, fmt.Errorf("ES search error: %s", resp.String())
	}

	var esResp struct {
		Hits struct {
			Total struct {
				Value int64 `json:"value"`
			} `json:"total"`
			Hits []struct {
				Source struct {
					ID int64 `json:"id"`
				} `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}

	if err := json.NewDecoder(resp.Body).Decode(&esResp); err != nil {
		return nil, err
	}

	videoIDs := make([]int64, 0, len(esResp.Hits.Hits))
	for _, h := range esResp.Hits.Hits {
		videoIDs = append(videoIDs, h.Source.ID)
	}

	total := esResp.Hits.Total.Value
	if len(videoIDs) == 0 {
		return s.buildSearchData(nil, total, req, "elasticsearch"), nil
	}

	videos, err := s.videoRepo.GetByIDsWithAuthor(videoIDs)
	if err != nil {
		return nil, err
	}

	// 保持 ES 相关度顺序
	videoMap := make(map[int64]*model.Video, len(videos))
	for i := range videos {
		videoMap[videos[i].ID] = &videos[i]
	}
	ordered := make([]model.Video, 0, len(videoIDs))
	for _, id := range videoIDs {
		if v, ok := videoMap[id]; ok {
			ordered = append(ordered, *v)
		}
	}

	return s.buildSearchData(ordered, total, req, "elasticsearch"), nil
}

func (s *SearchService) buildESQuery(req *dto.SearchVideoRequest) map[string]interface{} {
	boolQ := map[string]interface{}{
		"filter": []interface{}{
			map[string]interface{}{"term": map[string]interface{}{"is_published": true}},
		},
		"must": []interface{}{
			map[string]interface{}{
				"multi_match": map[string]interface{}{
					"query":    strings.TrimSpace(req.Q),
					"fields":   []string{"title^3", "description^1"},
					"type":     "best_fields",
					"operator": "or",
				},
			},
		},
	}

	if req.AuthorID != nil {
		boolQ["filter"] = append(boolQ["filter"].([]interface{}),
			map[string]interface{}{"term": map[string]interface{}{"author_id": *req.AuthorID}})
	}

	return map[string]interface{}{
		"query": map[string]interface{}{"bool": boolQ},
		"from":  (req.Page - 1) * req.PageSize,
		"size":  req.PageSize,
		"sort": []interface{}{
			map[string]interface{}{"_score": map[string]interface{}{"order": "desc"}},
			map[string]interface{}{"created_at": map[string]interface{}{"order": "desc"}},
		},
	}
}

func (s *SearchService) searchFromDB(req *dto.SearchVideoRequest) (*dto.SearchVideoData, error) {
	q := &repository.VideoQuery{
		Q:             strings.TrimSpace(req.Q),
		AuthorID:      req.AuthorID,
		PublishedOnly: true,
		Page:          req.Page,
		PageSize:      req.PageSize,
		WithAuthor:    true,
	}

	videos, total, err := s.videoRepo.List(q)
	if err != nil {
		return nil, err
	}

	return s.buildSearchData(videos, total, req, "database"), nil
}

func (s *SearchService) buildSearchData(videos []model.Video, total int64, req *dto.SearchVideoRequest, source string) *dto.SearchVideoData {
	items := make([]dto.VideoInfo, 0, len(videos))
	for i := range videos {
		items = append(items, *toVideoInfo(&videos[i], true))
	}

	return &dto.SearchVideoData{
		Videos:     items,
		Total:      total,
		Page:       req.Page,
		PageSize:   req.PageSize,
		TotalPages: totalPages(total, req.PageSize),
		Source:     source,
	}
}
