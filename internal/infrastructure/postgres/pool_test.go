package postgres

import (
	"context"
	"errors"
	"net"
	"testing"

	"github.com/stretchr/testify/assert"
)

type fakeResolver struct {
	ips   []net.IP
	err   error
	hosts []string
}

func (f *fakeResolver) LookupIP(_ context.Context, network, host string) ([]net.IP, error) {
	f.hosts = append(f.hosts, network+"/"+host)
	return f.ips, f.err
}

func TestDialTarget(t *testing.T) {
	ctx := context.Background()

	t.Run("hostname con A", func(t *testing.T) {
		r := &fakeResolver{ips: []net.IP{net.ParseIP("10.0.0.7")}}
		network, addr := dialTarget(ctx, r, "tcp", "erp-db.internal:5432")
		assert.Equal(t, "tcp4", network)
		assert.Equal(t, "10.0.0.7:5432", addr)
		assert.Equal(t, []string{"ip4/erp-db.internal"}, r.hosts)
	})

	t.Run("sin A se deja tal cual", func(t *testing.T) {
		r := &fakeResolver{err: errors.New("no such host")}
		network, addr := dialTarget(ctx, r, "tcp", "erp-db.internal:5432")
		assert.Equal(t, "tcp", network)
		assert.Equal(t, "erp-db.internal:5432", addr)
	})

	t.Run("literal IP no consulta DNS", func(t *testing.T) {
		r := &fakeResolver{}
		for _, a := range []string{"127.0.0.1:5432", "[::1]:5432"} {
			network, addr := dialTarget(ctx, r, "tcp", a)
			assert.Equal(t, "tcp", network)
			assert.Equal(t, a, addr)
		}
		assert.Empty(t, r.hosts)
	})

	t.Run("socket unix", func(t *testing.T) {
		r := &fakeResolver{}
		network, addr := dialTarget(ctx, r, "unix", "/var/run/postgresql/.s.PGSQL.5432")
		assert.Equal(t, "unix", network)
		assert.Equal(t, "/var/run/postgresql/.s.PGSQL.5432", addr)
		assert.Empty(t, r.hosts)
	})
}
