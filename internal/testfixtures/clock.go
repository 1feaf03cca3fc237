package testfixtures

import (
	"sync"
	"time"
)

// ReferenceTime опорный момент для тестов: воскресенье 2025-01-05 08:00 UTC
// Ближайший понедельник - 2025-01-06
func ReferenceTime() time.Time {
	return time.Date(2025, 1, 5, 8, 0, 0, 0, time.UTC)
}

// Clock управляемый источник времени для тестов
type Clock struct {
	mu      sync.Mutex
	current time.Time
}

// NewClock возвращает часы, выставленные на start (ReferenceTime, если start нулевой)
func NewClock(start time.Time) *Clock {
	if start.IsZero() {
		start = ReferenceTime()
	}
	return &Clock{current: start}
}

// Now возвращает текущее время часов
func (c *Clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.current
}

// Set переставляет часы
func (c *Clock) Set(t time.Time) {
	c.mu.Lock()
	c.current = t
	c.mu.Unlock()
}

// Advance сдвигает часы вперед и возвращает новое время
func (c *Clock) Advance(d time.Duration) time.Time {
	c.mu.Lock()
	c.current = c.current.Add(d)
	updated := c.current
	c.mu.Unlock()
	return updated
}
