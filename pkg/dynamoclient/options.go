package dynamoclient

import "time"

type Option func(c *DynamoClient)

func ConnAttempts(attempts int) Option {
	return func(c *DynamoClient) {
		c.connAttempts = attempts
	}
}

func ConnTimeout(timeout time.Duration) Option {
	return func(c *DynamoClient) {
		c.connTimeout = timeout
	}
}

// SkipPing is used by Lambda handlers, where cold starts should not pay for
// DescribeTable.
func SkipPing() Option {
	return func(c *DynamoClient) {
		c.skipPing = true
	}
}
