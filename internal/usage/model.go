package usage

// Usage is a snapshot of a user's storage consumption.
type Usage struct {
	QuotaBytes int64 `json:"quotaBytes"`
	UsedBytes  int64 `json:"usedBytes"`
}

// Remaining returns the bytes still available to the user.
func (u Usage) Remaining() int64 {
	if u.UsedBytes >= u.QuotaBytes {
		return 0
	}
	return u.QuotaBytes - u.UsedBytes
}
