package s3client

import "time"

type Option func(c *S3Client)

func ConnAttempts(attempts int) Option {
	return func(c *S3Client) {
		c.connAttempts = attempts
	}
}

func ConnTimeout(timeout time.Duration) Option {
	return func(c *S3Client) {
		c.connTimeout = timeout
	}
}

// UsePathStyle is required by most self-hosted S3-compatible stores.
func UsePathStyle(use bool) Option {
	return func(c *S3Client) {
		c.usePathStyle = use
	}
}

// PingBucket makes New wait until the bucket answers HeadBucket.
func PingBucket(bucket string) Option {
	return func(c *S3Client) {
		c.pingBucket = bucket
	}
}
