package queue

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"

	"recipe-assistant/internal/core/ai/openrouter"
	"recipe-assistant/internal/infrastructure/config"
	"recipe-assistant/internal/pkg/common"

	"go.uber.org/zap"
)

var (
	// ErrQueueFull 隊列已滿
	ErrQueueFull = errors.New("queue is full")
	// ErrClosed 隊列已關閉
	ErrClosed = errors.New("queue manager is closed")
)

// Handler 實際處理請求的函式
type Handler func(ctx context.Context, req *openrouter.Request) (*openrouter.Response, error)

// Request 隊列請求
type Request struct {
	Context context.Context
	Request *openrouter.Request
	Result  chan Result
}

// Result 處理結果
type Result struct {
	Response *openrouter.Response
	Error    error
}

// Status 隊列狀態
type Status struct {
	QueueLength    int   `json:"queue_length"`
	ProcessedCount int64 `json:"processed_count"`
	MaxQueueSize   int   `json:"max_queue_size"`
	Workers        int   `json:"workers"`
}

// Manager 以固定數量 worker 處理 AI 請求的有界隊列
type Manager struct {
	workers   int
	maxSize   int
	handler   Handler
	queue     chan *Request
	done      chan struct{}
	processed int64

	mu     sync.RWMutex
	closed bool
	wg     sync.WaitGroup
}

// NewManager 創建新的隊列管理器並啟動 worker
func NewManager(cfg config.QueueConfig, handler Handler) *Manager {
	m := &Manager{
		workers: cfg.Workers,
		maxSize: cfg.MaxSize,
		handler: handler,
		queue:   make(chan *Request, cfg.MaxSize),
		done:    make(chan struct{}),
	}
	for i := 0; i < cfg.Workers; i++ {
		m.wg.Add(1)
		go m.worker(i)
	}
	common.LogInfo("AI 請求隊列已啟動",
		zap.Int("workers", cfg.Workers),
		zap.Int("max_queue_size", cfg.MaxSize),
	)
	return m
}

// Enqueue 將請求加入隊列，不阻塞；隊列滿時回傳 ErrQueueFull
func (m *Manager) Enqueue(ctx context.Context, req *openrouter.Request) (<-chan Result, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.closed {
		return nil, ErrClosed
	}

	queueReq := &Request{
		Context: ctx,
		Request: req,
		Result:  make(chan Result, 1),
	}

	select {
	case m.queue <- queueReq:
		common.LogDebug("請求已加入隊列",
			zap.Int("queue_length", len(m.queue)),
			zap.Int("max_queue_size", m.maxSize),
		)
		return queueReq.Result, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
		return nil, ErrQueueFull
	}
}

// Submit 加入隊列並等待結果
func (m *Manager) Submit(ctx context.Context, req *openrouter.Request) (*openrouter.Response, error) {
	result, err := m.Enqueue(ctx, req)
	if err != nil {
		return nil, err
	}
	select {
	case r := <-result:
		return r.Response, r.Error
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (m *Manager) worker(id int) {
	defer m.wg.Done()
	for {
		select {
		case req, ok := <-m.queue:
			if !ok {
				return
			}
			m.process(id, req)
		case <-m.done:
			return
		}
	}
}

func (m *Manager) process(id int, req *Request) {
	// 等待期間已取消的請求不再送出
	if err := req.Context.Err(); err != nil {
		req.Result <- Result{Error: err}
		return
	}
	resp, err := m.handler(req.Context, req.Request)
	atomic.AddInt64(&m.processed, 1)
	if err != nil {
		common.LogDebug("隊列請求失敗", zap.Int("worker", id), zap.Error(err))
	}
	req.Result <- Result{Response: resp, Error: err}
}

// GetQueueStatus 獲取隊列狀態
func (m *Manager) GetQueueStatus() Status {
	return Status{
		QueueLength:    len(m.queue),
		ProcessedCount: atomic.LoadInt64(&m.processed),
		MaxQueueSize:   m.maxSize,
		Workers:        m.workers,
	}
}

// Close 停止接收新請求並等待 worker 結束
func (m *Manager) Close() {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return
	}
	m.closed = true
	close(m.done)
	m.mu.Unlock()

	m.wg.Wait()

	// 尚未處理的請求直接回報關閉
	for {
		select {
		case req := <-m.queue:
			req.Result <- Result{Error: ErrClosed}
		default:
			return
		}
	}
}
