package sequence

type missingValue struct{}

func (missingValue) String() string { return "<missing>" }

// Missing marks a position that holds no value. It is distinct from nil,
// which is an ordinary value.
var Missing any = missingValue{}

// IsMissing reports whether v is the Missing sentinel.
func IsMissing(v any) bool {
	_, ok := v.(missingValue)
	return ok
}
