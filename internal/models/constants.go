package models

// Derived status labels, never persisted.
const (
	StatusActive    = "Active"
	StatusInactive  = "Inactive"
	StatusCancelled = "Cancelled"
	StatusCompleted = "Completed"
	StatusScheduled = "Scheduled"
)

// FilterAll is the sentinel that disables a category predicate.
const FilterAll = "All"

const (
	// DefaultCollection имя коллекции бронирований в хранилище
	DefaultCollection = "bookings"

	// SessionCookieName фиксированное имя маркера аутентифицированной сессии
	SessionCookieName = "parkdash_session"

	// DefaultSessionTTLHours время жизни сессии
	DefaultSessionTTLHours = 24

	// TrendWindowDays глубина трендов на графиках
	TrendWindowDays = 14

	// DefaultPageSize размер страницы таблицы по умолчанию
	DefaultPageSize = 10

	// WorkerQueueSize размер очереди воркера зеркалирования
	WorkerQueueSize = 100
)

// PageSizes is the fixed set of allowed page sizes.
var PageSizes = []int{10, 25, 50, 100}
