package service

import (
	"container/heap"
	"time"

	"taskerai/internal/domain"
)

// 任务排序：blocked-by 边构成 DAG。每个任务有启发式基础代价
// （优先级权重 + 截止期紧迫度），Dijkstra 式松弛把紧迫度沿依赖边
// 向阻塞者传播，随后按代价出堆，保证阻塞者先于被阻塞者。

type costItem struct {
	id   uint
	cost float64
}

type costHeap []costItem

func (h costHeap) Len() int { return len(h) }
func (h costHeap) Less(i, j int) bool {
	if h[i].cost != h[j].cost {
		return h[i].cost < h[j].cost
	}
	return h[i].id < h[j].id // 代价相同按 ID，保证确定性
}
func (h costHeap) Swap(i, j int)      { h[i], h[j] = h[j], h[i] }
func (h *costHeap) Push(x any)        { *h = append(*h, x.(costItem)) }
func (h *costHeap) Pop() any {
	old := *h
	n := len(old)
	it := old[n-1]
	*h = old[:n-1]
	return it
}

// baseCost 基础代价：优先级越高、截止越近，代价越小
func baseCost(t *domain.Task, now time.Time) float64 {
	c := float64(6 - t.Priority) // Priority 1..5 → 5..1
	if t.DueDate != nil {
		hours := t.DueDate.Sub(now).Hours()
		if hours < 0 {
			hours = 0
		}
		if hours > 720 {
			hours = 720
		}
		c += hours / 720 // 紧迫度归一到 [0,1]
	} else {
		c += 1
	}
	return c
}

// OrderTasks 返回依赖序的任务 ID 列表与是否检测到环。
// deps[t] 列出阻塞 t 的任务。环按最小 ID 确定性破开。
func OrderTasks(tasks []domain.Task, deps map[uint][]uint, now time.Time) ([]uint, bool) {
	byID := make(map[uint]*domain.Task, len(tasks))
	for i := range tasks {
		byID[tasks[i].ID] = &tasks[i]
	}

	cost := make(map[uint]float64, len(tasks))
	for id, t := range byID {
		cost[id] = baseCost(t, now)
	}

	// 松弛：被阻塞任务更紧迫时，阻塞者继承其代价
	relax := &costHeap{}
	for id, c := range cost {
		heap.Push(relax, costItem{id: id, cost: c})
	}
	for relax.Len() > 0 {
		it := heap.Pop(relax).(costItem)
		if it.cost > cost[it.id] {
			continue // 过期条目
		}
		for _, blocker := range deps[it.id] {
			if _, ok := byID[blocker]; !ok {
				continue
			}
			if it.cost < cost[blocker] {
				cost[blocker] = it.cost
				heap.Push(relax, costItem{id: blocker, cost: it.cost})
			}
		}
	}

	// Kahn 出堆：入度为 0 的任务按代价最小先出
	indegree := make(map[uint]int, len(tasks))
	dependents := make(map[uint][]uint)
	for id := range byID {
		for _, blocker := range deps[id] {
			if _, ok := byID[blocker]; !ok {
				continue
			}
			indegree[id]++
			dependents[blocker] = append(dependents[blocker], id)
		}
	}

	ready := &costHeap{}
	for id := range byID {
		if indegree[id] == 0 {
			heap.Push(ready, costItem{id: id, cost: cost[id]})
		}
	}

	order := make([]uint, 0, len(tasks))
	done := make(map[uint]bool, len(tasks))
	hadCycle := false
	for len(order) < len(tasks) {
		if ready.Len() == 0 {
			// 环：选剩余最小 ID 强行放行
			hadCycle = true
			var pick uint
			for id := range byID {
				if !done[id] && (pick == 0 || id < pick) {
					pick = id
				}
			}
			indegree[pick] = 0
			heap.Push(ready, costItem{id: pick, cost: cost[pick]})
			continue
		}
		it := heap.Pop(ready).(costItem)
		if done[it.id] {
			continue
		}
		done[it.id] = true
		order = append(order, it.id)
		for _, dep := range dependents[it.id] {
			if done[dep] {
				continue
			}
			indegree[dep]--
			if indegree[dep] <= 0 {
				heap.Push(ready, costItem{id: dep, cost: cost[dep]})
			}
		}
	}
	return order, hadCycle
}
