package kbsync

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"programcheck/internal/util"
)

// retryLogger sends retryablehttp output to util.Log. Request chatter stays
// at debug level.
type retryLogger struct{}

func (retryLogger) Error(msg string, kv ...interface{}) { util.Log.WithFields(fields(kv)).Error(msg) }
func (retryLogger) Warn(msg string, kv ...interface{})  { util.Log.WithFields(fields(kv)).Warn(msg) }
func (retryLogger) Info(msg string, kv ...interface{})  { util.Log.WithFields(fields(kv)).Debug(msg) }
func (retryLogger) Debug(msg string, kv ...interface{}) { util.Log.WithFields(fields(kv)).Debug(msg) }

func fields(kv []interface{}) logrus.Fields {
	out := logrus.Fields{}
	for i := 0; i+1 < len(kv); i += 2 {
		out[fmt.Sprint(kv[i])] = kv[i+1]
	}
	return out
}
