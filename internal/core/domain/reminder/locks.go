package reminder

import "sync"

// Locks serializes the read-modify-write sequences of the scheduler. Work on
// one appointment holds its own mutex, and LockAll excludes all of them.
type Locks struct {
	all          sync.RWMutex
	appointments sync.Map
}

func NewLocks() *Locks {
	return &Locks{}
}

// Lock blocks until no other operation on the appointment is running. The
// returned func releases the lock. Calls must not nest.
func (l *Locks) Lock(id AppointmentID) (unlock func()) {
	l.all.RLock()
	value, _ := l.appointments.LoadOrStore(id, &sync.Mutex{})
	mutex := value.(*sync.Mutex)
	mutex.Lock()
	return func() {
		mutex.Unlock()
		l.all.RUnlock()
	}
}

// LockAll waits for running appointment operations and blocks new ones until
// the returned func is called.
func (l *Locks) LockAll() (unlock func()) {
	l.all.Lock()
	return l.all.Unlock
}
