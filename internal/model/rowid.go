package model

// RowID implementations give every entity the stable identifier the feed
// reconciler keys on.

func (p Profile) RowID() string      { return p.ID.String() }
func (c Class) RowID() string        { return c.ID.String() }
func (m ClassMember) RowID() string  { return m.ID.String() }
func (s Schedule) RowID() string     { return s.ID.String() }
func (n Notification) RowID() string { return n.ID.String() }

func (m ClassMemberView) RowID() string { return m.ID.String() }
func (s ScheduleView) RowID() string    { return s.ID.String() }
