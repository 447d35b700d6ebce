package schematic

// FirstID is the first id handed out by a fresh Counter.
const FirstID = 1001

// IDGenerator hands out entity ids.
type IDGenerator interface {
	// Next returns a fresh id, never returned before.
	Next() int
	// Observe records an externally assigned id so Next never returns it.
	Observe(id int)
}

// Counter is a monotonic IDGenerator.
type Counter struct {
	next int
}

// NewCounter returns a counter whose first id is start.
func NewCounter(start int) *Counter {
	return &Counter{next: start}
}

func (c *Counter) Next() int {
	if c.next == 0 {
		c.next = FirstID
	}
	id := c.next
	c.next++
	return id
}

func (c *Counter) Observe(id int) {
	if c.next == 0 {
		c.next = FirstID
	}
	if id >= c.next {
		c.next = id + 1
	}
}
