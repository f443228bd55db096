// 实现了一个最简单的协程池
// 每个worker运行同一个workerFn，由workerFn自行从channel中获取任务，
// workerFn返回即视为该worker退出
// NOTE: 注意当前实现没有处理worker崩溃、需要重启等问题
package routingpool

import (
	"context"
	"errors"
	"sync"
)

var ErrEmptyPool = errors.New("pool size must be greater than zero")

type SimpleRoutingPool struct {
	wg sync.WaitGroup

	ctx      context.Context
	size     uint32
	workerFn func(context.Context)
}

func NewSimpleRoutingPool(ctx context.Context, size uint32, workerFn func(context.Context)) RoutingPool {
	return &SimpleRoutingPool{
		ctx:      ctx,
		size:     size,
		workerFn: workerFn,
	}
}

func (s *SimpleRoutingPool) Start() error {
	if s.size == 0 {
		return ErrEmptyPool
	}
	var i uint32
	for ; i != s.size; i++ {
		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			s.workerFn(s.ctx)
		}()
	}
	return nil
}

// 等待所有worker退出
func (s *SimpleRoutingPool) Stop() {
	s.wg.Wait()
}
