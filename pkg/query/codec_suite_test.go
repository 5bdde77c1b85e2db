package query_test

import (
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/liquers-go/liquers/pkg/query"
)

func TestQueryCodec(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Query Codec Suite")
}

var _ = Describe("Query codec", func() {
	DescribeTable("parse(encode(q)) reproduces q modulo positions",
		func(src string) {
			q, err := query.Parse(src)
			Expect(err).NotTo(HaveOccurred())

			reparsed, err := query.Parse(q.Encode())
			Expect(err).NotTo(HaveOccurred())

			Expect(reparsed.Encode()).To(Equal(q.Encode()))
			Expect(reparsed.Absolute).To(Equal(q.Absolute))
			Expect(len(reparsed.Segments)).To(Equal(len(q.Segments)))
		},
		Entry("bare action", "abc"),
		Entry("two actions with params", "abc-def/xxx-123"),
		Entry("resource then transform", "-R/a/b/-/dr"),
		Entry("absolute query", "/world/greet-Ciao"),
		Entry("filename tail", "world/greet/result.txt"),
		Entry("negative numeric param", "scale-~5"),
	)

	DescribeTable("predecessor decomposition reproduces the encoded form",
		func(src string) {
			q, err := query.Parse(src)
			Expect(err).NotTo(HaveOccurred())

			pred, tail := q.Predecessor()

			joined := pred.Encode()
			if joined != "" && tail.Encode() != "" {
				joined += "/"
			}
			joined += tail.Encode()

			Expect(joined).To(Equal(q.Encode()))
		},
		Entry("two actions", "abc-def/xxx-123"),
		Entry("three-action pipeline", "world/upper/greet-Ciao"),
		Entry("with filename", "world/greet/result.txt"),
	)

	It("treats the empty query as its own predecessor and tail", func() {
		q, err := query.Parse("")
		Expect(err).NotTo(HaveOccurred())

		pred, tail := q.Predecessor()
		Expect(pred.Encode()).To(Equal(""))
		Expect(tail.Encode()).To(Equal(""))
	})
})
