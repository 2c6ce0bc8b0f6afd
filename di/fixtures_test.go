package di_test

import "sync/atomic"

// 测试用的能力层次：
// Explainer(1 个方法) <- DetailedExplainer(2) <- *fullDependency(3)
type Explainer interface {
	Explain() string
}

type DetailedExplainer interface {
	Explainer
	Detail() string
}

type plainDependency struct{ name string }

func (d *plainDependency) Explain() string { return "plain:" + d.name }

type otherPlainDependency struct{ name string }

func (d *otherPlainDependency) Explain() string { return "other:" + d.name }

type detailedDependency struct{ name string }

func (d *detailedDependency) Explain() string { return "detailed:" + d.name }
func (d *detailedDependency) Detail() string  { return d.name }

type fullDependency struct{ name string }

func (d *fullDependency) Explain() string { return "full:" + d.name }
func (d *fullDependency) Detail() string  { return d.name }
func (d *fullDependency) Name() string    { return d.name }

// namedDependency 同时实现 fmt.Stringer 与 Explainer，两者之间没有静态关系
type namedDependency struct{ name string }

func (d *namedDependency) String() string  { return d.name }
func (d *namedDependency) Explain() string { return "named:" + d.name }

type disposable struct {
	id       int
	disposed *atomic.Int32
}

func (d *disposable) Dispose() { d.disposed.Add(1) }

type payload struct {
	id  int
	buf [64]byte
}
