package connection

import (
	"errors"
	"fmt"
)

// What a session loop should do after a failed read or write.
const (
	ConnLoopBreak uint8 = iota
	ConnLoopRetry
	ConnLoopAbnormalClosureRetry
	ConnLoopContinue
	ConnInvalidMsgType
)

type ConnErr struct {
	code uint8
	desc string
}

func NewConnErr(code uint8) ConnErr {
	return ConnErr{code: code}
}

func (c ConnErr) AddDesc(desc string) ConnErr {
	c.desc = desc
	return c
}

func (c ConnErr) Error() string {
	return fmt.Sprintf("connection error - code: %d\tdesc: %s", c.code, c.desc)
}

func (c ConnErr) Code() uint8 {
	return c.code
}

// ConnErrCode extracts the loop code from err, ConnLoopBreak when err is
// not a ConnErr.
func ConnErrCode(err error) uint8 {
	var connErr ConnErr
	if errors.As(err, &connErr) {
		return connErr.code
	}
	return ConnLoopBreak
}
