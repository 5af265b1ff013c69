package emitcache

// ClassCache holds one linked class's cache state: the current
// DesugaredClassCache (keyed by the last version seen) plus independent
// maps of member-method and static-method caches (spec.md §3).
type ClassCache struct {
	version     string
	hasVersion  bool
	desugared   *DesugaredClassCache
	methods     map[string]*MethodCache
	statics     map[string]*MethodCache
	usedThisRun bool
}

func newClassCache() *ClassCache {
	return &ClassCache{
		methods: map[string]*MethodCache{},
		statics: map[string]*MethodCache{},
	}
}

// Desugared implements the ClassCache lookup protocol of spec.md §4.4: if
// the current cache is absent, or its recorded version is empty, or it
// differs from version, the existing DesugaredClassCache is dropped and a
// fresh one allocated; otherwise the existing one is reused. Either way the
// class cache is marked used for this run.
func (c *ClassCache) Desugared(version string) (cache *DesugaredClassCache, reused bool) {
	c.usedThisRun = true
	if c.hasVersion && version != "" && c.version == version {
		return c.desugared, true
	}
	c.desugared = &DesugaredClassCache{}
	c.version = version
	c.hasVersion = version != ""
	return c.desugared, false
}

// Method returns the member-method cache for name, creating it on first
// reference.
func (c *ClassCache) Method(name string) *MethodCache {
	return getOrCreate(c.methods, name)
}

// StaticMethod returns the static-method cache for name, creating it on
// first reference.
func (c *ClassCache) StaticMethod(name string) *MethodCache {
	return getOrCreate(c.statics, name)
}

func getOrCreate(m map[string]*MethodCache, name string) *MethodCache {
	if mc, ok := m[name]; ok {
		return mc
	}
	mc := &MethodCache{}
	m[name] = mc
	return mc
}

// InvalidateMethod invalidates a single method or static-method cache entry
// by name, or the named DesugaredClassCache slot when name is one of C7's
// sentinel method names (spec.md §4.5).
func (c *ClassCache) InvalidateMethod(name string, static bool) {
	if c.desugared != nil {
		if slot := c.desugared.slotByName(name); slot != nil {
			slot.Invalidate()
			return
		}
	}
	m := c.methods
	if static {
		m = c.statics
	}
	if mc, ok := m[name]; ok {
		mc.Invalidate()
	}
}

// startRun clears usedThisRun and every sub-cache's used flag ahead of a
// new run.
func (c *ClassCache) startRun() {
	c.usedThisRun = false
	for _, mc := range c.methods {
		mc.StartRun()
	}
	for _, mc := range c.statics {
		mc.StartRun()
	}
}

// cleanAfterRun drops method/static-method entries unused this run and
// reports whether the class cache itself should be retained: it survives
// iff it was used this run or any sub-cache remains (spec.md §4.4,
// "retained iff any sub-cache survives or its class cache was used").
func (c *ClassCache) cleanAfterRun() bool {
	for name, mc := range c.methods {
		if !mc.CleanAfterRun() {
			delete(c.methods, name)
		}
	}
	for name, mc := range c.statics {
		if !mc.CleanAfterRun() {
			delete(c.statics, name)
		}
	}
	return c.usedThisRun || len(c.methods) > 0 || len(c.statics) > 0
}
