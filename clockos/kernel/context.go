package kernel

// Context provides task-local access to kernel operations for one Step.
type Context struct {
	k      *Kernel
	taskID TaskID
}

// TaskID returns the current task ID.
func (c *Context) TaskID() TaskID { return c.taskID }

// NowTick returns the kernel tick current for this cycle.
func (c *Context) NowTick() uint64 {
	if c.k == nil {
		return 0
	}
	return c.k.tick
}

// TryRecv reads one message from the capability endpoint without blocking.
func (c *Context) TryRecv(epCap Capability) (Message, bool) {
	if c.k == nil || !epCap.valid() || !epCap.canRecv() {
		return Message{}, false
	}
	return c.k.recv(epCap.ep)
}

// Send sends a message from one capability endpoint to another.
func (c *Context) Send(fromCap, toCap Capability, kind uint16, payload []byte) SendResult {
	if c.k == nil {
		return SendErrNoEndpoint
	}
	if !fromCap.valid() {
		return SendErrInvalidFromCap
	}
	if !toCap.valid() {
		return SendErrInvalidToCap
	}
	if !toCap.canSend() {
		return SendErrNoSendRight
	}
	return c.k.send(fromCap.ep, toCap.ep, kind, payload)
}
