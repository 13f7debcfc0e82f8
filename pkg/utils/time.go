package utils

import "time"

func defaultNowMs() int64 {
	return time.Now().UTC().UnixMilli()
}
