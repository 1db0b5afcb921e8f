package object

// Collection is an insertion-ordered list of one entity type.
type Collection[T Identified] struct {
	items []T
}

// Len returns the number of live entities.
func (c *Collection[T]) Len() int {
	return len(c.items)
}

// At returns the i-th entity in insertion order.
func (c *Collection[T]) At(i int) T {
	return c.items[i]
}

// Items exposes the backing slice for read-only iteration.
func (c *Collection[T]) Items() []T {
	return c.items
}

// Index returns the position of the entity with id, or -1.
func (c *Collection[T]) Index(id ID) int {
	for i, e := range c.items {
		if e.Base().ID == id {
			return i
		}
	}
	return -1
}

func (c *Collection[T]) add(e T) {
	c.items = append(c.items, e)
}

// removeAt keeps the order of the remaining entities, so reverse-index
// loops may remove the current element without skipping siblings.
func (c *Collection[T]) removeAt(i int) T {
	e := c.items[i]
	copy(c.items[i:], c.items[i+1:])
	var zero T
	c.items[len(c.items)-1] = zero
	c.items = c.items[:len(c.items)-1]
	return e
}

func (c *Collection[T]) clear() []T {
	old := c.items
	c.items = nil
	return old
}

// Registry owns every live entity except the player, one collection per kind.
// An entity is in at most one collection at a time.
type Registry struct {
	Enemies     Collection[*Enemy]
	PlayerShots Collection[*Projectile]
	EnemyShots  Collection[*Projectile]
	Explosions  Collection[*ExplosionGroup]

	// OnDetach, if set, is told about every entity leaving the registry so
	// the renderer can drop its visual handle.
	OnDetach func(e Identified)

	nextID ID
	live   map[ID]Kind
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{live: make(map[ID]Kind)}
}

// NextID allocates an entity id. Ids are never reused.
func (r *Registry) NextID() ID {
	r.nextID++
	return r.nextID
}

// Contains reports whether an entity with id is live.
func (r *Registry) Contains(id ID) bool {
	_, ok := r.live[id]
	return ok
}

// attach assigns an id if needed and records e as live.
// It returns false if e is already in a collection.
func (r *Registry) attach(e Identified) bool {
	b := e.Base()
	if b.ID == 0 {
		b.ID = r.NextID()
	} else if _, ok := r.live[b.ID]; ok {
		return false
	}
	r.live[b.ID] = b.Kind
	return true
}

func (r *Registry) detach(e Identified) {
	delete(r.live, e.Base().ID)
	if r.OnDetach != nil {
		r.OnDetach(e)
	}
}

// AddEnemy inserts an enemy. Returns false if it is already registered.
func (r *Registry) AddEnemy(e *Enemy) bool {
	if !r.attach(e) {
		return false
	}
	r.Enemies.add(e)
	return true
}

// AddShot inserts a projectile into the collection of its owner.
func (r *Registry) AddShot(p *Projectile) bool {
	if !r.attach(p) {
		return false
	}
	if p.Owner == OwnerEnemy {
		r.EnemyShots.add(p)
	} else {
		r.PlayerShots.add(p)
	}
	return true
}

// AddExplosion inserts an explosion group.
func (r *Registry) AddExplosion(g *ExplosionGroup) bool {
	if !r.attach(g) {
		return false
	}
	r.Explosions.add(g)
	return true
}

// RemoveEnemyAt detaches the i-th enemy.
func (r *Registry) RemoveEnemyAt(i int) *Enemy {
	e := r.Enemies.removeAt(i)
	r.detach(e)
	return e
}

// RemovePlayerShotAt detaches the i-th player projectile.
func (r *Registry) RemovePlayerShotAt(i int) *Projectile {
	p := r.PlayerShots.removeAt(i)
	r.detach(p)
	return p
}

// RemoveEnemyShotAt detaches the i-th enemy projectile.
func (r *Registry) RemoveEnemyShotAt(i int) *Projectile {
	p := r.EnemyShots.removeAt(i)
	r.detach(p)
	return p
}

// RemoveExplosionAt detaches the i-th explosion and releases its particles.
func (r *Registry) RemoveExplosionAt(i int) *ExplosionGroup {
	g := r.Explosions.removeAt(i)
	r.detach(g)
	g.Release()
	return g
}

// Remove detaches the entity with id from whichever collection holds it.
// Returns false if no live entity has that id.
func (r *Registry) Remove(id ID) bool {
	kind, ok := r.live[id]
	if !ok {
		return false
	}
	switch kind {
	case KindEnemy:
		if i := r.Enemies.Index(id); i >= 0 {
			r.RemoveEnemyAt(i)
		}
	case KindPlayerProjectile:
		if i := r.PlayerShots.Index(id); i >= 0 {
			r.RemovePlayerShotAt(i)
		}
	case KindEnemyProjectile:
		if i := r.EnemyShots.Index(id); i >= 0 {
			r.RemoveEnemyShotAt(i)
		}
	case KindExplosionParticle:
		if i := r.Explosions.Index(id); i >= 0 {
			r.RemoveExplosionAt(i)
		}
	}
	return true
}

// Clear detaches every entity.
func (r *Registry) Clear() {
	for _, e := range r.Enemies.clear() {
		r.detach(e)
	}
	for _, p := range r.PlayerShots.clear() {
		r.detach(p)
	}
	for _, p := range r.EnemyShots.clear() {
		r.detach(p)
	}
	for _, g := range r.Explosions.clear() {
		r.detach(g)
		g.Release()
	}
}

// Count returns the number of live entities of all kinds.
func (r *Registry) Count() int {
	return len(r.live)
}
