package logging

import (
	"time"
)

// Common field constructors
func String(key, value string) Field {
	return Field{Key: key, Value: value}
}

func Int(key string, value int) Field {
	return Field{Key: key, Value: value}
}

func Float64(key string, value float64) Field {
	return Field{Key: key, Value: value}
}

func Bool(key string, value bool) Field {
	return Field{Key: key, Value: value}
}

func Duration(key string, value time.Duration) Field {
	return Field{Key: key, Value: value.String()}
}

func Error(err error) Field {
	if err == nil {
		return Field{Key: "error", Value: nil}
	}
	return Field{Key: "error", Value: err.Error()}
}

func Any(key string, value any) Field {
	return Field{Key: key, Value: value}
}

// Component field helpers for common component names
func Component(name string) Field {
	return String("component", name)
}

func VariableName(name string) Field {
	return String("variable", name)
}

func Scope(names []string) Field {
	return Field{Key: "scope", Value: names}
}

func QueryID(id string) Field {
	return String("query_id", id)
}

func EvidenceCount(n int) Field {
	return Int("evidence_count", n)
}

func FactorCount(n int) Field {
	return Int("factor_count", n)
}

func Latency(d time.Duration) Field {
	return Duration("latency", d)
}
