package interp_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/liquers-go/liquers/pkg/asset"
	"github.com/liquers-go/liquers/pkg/command"
	"github.com/liquers-go/liquers/pkg/interp"
	"github.com/liquers-go/liquers/pkg/liquererr"
	"github.com/liquers-go/liquers/pkg/metadata"
	"github.com/liquers-go/liquers/pkg/param"
	"github.com/liquers-go/liquers/pkg/query"
	"github.com/liquers-go/liquers/pkg/store/memstore"
	"github.com/liquers-go/liquers/pkg/value"
	"github.com/liquers-go/liquers/pkg/value/simple"
)

func TestEvaluation(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Evaluation Suite")
}

func literalString(args []param.Value, name string) string {
	for _, a := range args {
		lit, ok := a.(param.Literal)
		if !ok || lit.Name != name {
			continue
		}
		if s, ok := lit.JSON.(string); ok {
			return s
		}
	}
	return ""
}

var _ = Describe("Evaluate", func() {
	var env *interp.Env

	BeforeEach(func() {
		reg := command.NewRegistry()
		reg.Register(command.Metadata{Name: "world"}, command.ExecutorFunc(
			func(ctx context.Context, state value.Value, args []param.Value) (value.Value, error) {
				return simple.FromString("world"), nil
			}))
		env = &interp.Env{
			Registry: reg,
			Store:    memstore.New("mem"),
			Factory:  simple.Factory{},
			Assets:   asset.New(memstore.New("mem"), nil),
		}
	})

	It("marks the asset Ready and preserves the query in the final metadata", func() {
		q, err := query.Parse("world")
		Expect(err).NotTo(HaveOccurred())

		state, err := interp.New().Evaluate(context.Background(), env, q, query.Key{})
		Expect(err).NotTo(HaveOccurred())
		Expect(state.Metadata.Status).To(Equal(metadata.StatusReady))
		Expect(state.Metadata.Query.Encode()).To(Equal(q.Encode()))

		a, err := env.Assets.GetAsset(context.Background(), q)
		Expect(err).NotTo(HaveOccurred())
		Expect(a.Status()).To(Equal(metadata.StatusReady))
	})

	It("resolves a link parameter through a sub-evaluation", func() {
		env.Registry.Register(command.Metadata{
			Name: "hello",
			Arguments: []command.ArgumentInfo{
				{Name: "name", ArgumentType: command.ArgString},
			},
		}, command.ExecutorFunc(
			func(ctx context.Context, state value.Value, args []param.Value) (value.Value, error) {
				return simple.FromString("hello " + literalString(args, "name")), nil
			}))

		q, err := query.Parse("hello-~Xworld~E")
		Expect(err).NotTo(HaveOccurred())

		state, err := interp.New().Evaluate(context.Background(), env, q, query.Key{})
		Expect(err).NotTo(HaveOccurred())

		s, err := state.Data.TryIntoString()
		Expect(err).NotTo(HaveOccurred())
		Expect(s).To(Equal("hello world"))
	})

	It("transitions to Error, never Ready, when cancelled", func() {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		q, err := query.Parse("world")
		Expect(err).NotTo(HaveOccurred())

		_, err = interp.New().Evaluate(ctx, env, q, query.Key{})
		Expect(err).To(HaveOccurred())

		var cancelled *liquererr.Cancelled
		Expect(errors.As(err, &cancelled)).To(BeTrue())
		Expect(errors.Is(err, context.Canceled)).To(BeTrue())

		a, err := env.Assets.GetAsset(context.Background(), q)
		Expect(err).NotTo(HaveOccurred())
		Expect(a.Status()).To(Equal(metadata.StatusError))
	})

	It("starts exactly one underlying invocation for concurrent evaluations of one query", func() {
		var mu sync.Mutex
		calls := 0
		env.Registry.Register(command.Metadata{Name: "slow"}, command.ExecutorFunc(
			func(ctx context.Context, state value.Value, args []param.Value) (value.Value, error) {
				mu.Lock()
				calls++
				mu.Unlock()
				time.Sleep(50 * time.Millisecond)
				return simple.FromString("done"), nil
			}))

		q, err := query.Parse("slow")
		Expect(err).NotTo(HaveOccurred())

		ip := interp.New()
		var wg sync.WaitGroup
		results := make([]string, 4)
		for i := 0; i < 4; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				defer GinkgoRecover()
				state, err := ip.Evaluate(context.Background(), env, q, query.Key{})
				Expect(err).NotTo(HaveOccurred())
				s, err := state.Data.TryIntoString()
				Expect(err).NotTo(HaveOccurred())
				results[i] = s
			}(i)
		}
		wg.Wait()

		mu.Lock()
		defer mu.Unlock()
		Expect(calls).To(Equal(1))
		for _, r := range results {
			Expect(r).To(Equal("done"))
		}
	})
})
