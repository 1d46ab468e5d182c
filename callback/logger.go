// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package callback

import (
	"github.com/sirupsen/logrus"

	"code.hybscloud.com/link/conid"
)

// Logger logs OnRecv, OnSend and OnSent at a configurable level, and OnFail
// always at Warn, using a logrus.FieldLogger and attaching the connection id
// as structured fields.
type Logger[SendT, RecvT any] struct {
	Log   logrus.FieldLogger
	Level logrus.Level
}

// NewLogger returns a Logger writing to log at level.
func NewLogger[SendT, RecvT any](log logrus.FieldLogger, level logrus.Level) Logger[SendT, RecvT] {
	return Logger[SendT, RecvT]{Log: log, Level: level}
}

func (l Logger[SendT, RecvT]) fields(id conid.ID) *logrus.Entry {
	return l.Log.WithFields(logrus.Fields{
		"con_name": id.Name,
		"con_role": id.Role.String(),
	})
}

func (l Logger[SendT, RecvT]) OnRecv(id conid.ID, msg *RecvT) {
	l.fields(id).Logf(l.Level, "recv: %+v", *msg)
}

func (l Logger[SendT, RecvT]) OnSend(id conid.ID, msg *SendT) {
	l.fields(id).Logf(l.Level, "send: %+v", *msg)
}

func (l Logger[SendT, RecvT]) OnSent(id conid.ID, msg *SendT) {
	l.fields(id).Logf(l.Level, "sent: %+v", *msg)
}

func (l Logger[SendT, RecvT]) OnFail(id conid.ID, msg *SendT, err error) {
	l.fields(id).WithError(err).Warnf("fail: %+v", *msg)
}

var _ RecvSend[struct{}, struct{}] = Logger[struct{}, struct{}]{}
