package tlb

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/sarchlab/pagesim/mem/vm"
	"go.uber.org/mock/gomock"
)

var _ = Describe("TLB", func() {
	var (
		mockCtrl *gomock.Controller
		ring     *MockRing
		tlb      *Comp
	)

	BeforeEach(func() {
		mockCtrl = gomock.NewController(GinkgoT())
		ring = NewMockRing(mockCtrl)

		tlb = MakeBuilder().Build("TLB")
		tlb.ring = ring
	})

	AfterEach(func() {
		mockCtrl.Finish()
	})

	It("should report a hit", func() {
		ring.EXPECT().
			Lookup(uint8(3)).
			Return(vm.Page{PageNumber: 3, FrameNumber: 9, Valid: true}, true)

		frame, found := tlb.Lookup(3)

		Expect(found).To(BeTrue())
		Expect(frame).To(Equal(uint8(9)))
		Expect(tlb.NumLookups()).To(Equal(uint64(1)))
		Expect(tlb.NumHits()).To(Equal(uint64(1)))
	})

	It("should report a miss", func() {
		ring.EXPECT().Lookup(uint8(3)).Return(vm.Page{}, false)

		_, found := tlb.Lookup(3)

		Expect(found).To(BeFalse())
		Expect(tlb.NumLookups()).To(Equal(uint64(1)))
		Expect(tlb.NumHits()).To(Equal(uint64(0)))
	})

	It("should insert valid pages", func() {
		ring.EXPECT().Insert(vm.Page{
			PageNumber:  4,
			FrameNumber: 1,
			Valid:       true,
		})

		tlb.Insert(4, 1)
	})

	It("should reset the ring and the counters", func() {
		ring.EXPECT().Lookup(uint8(0)).Return(vm.Page{}, false)
		ring.EXPECT().Reset()

		tlb.Lookup(0)
		tlb.Reset()

		Expect(tlb.NumLookups()).To(Equal(uint64(0)))
	})
})

var _ = Describe("TLB with a real ring", func() {
	var tlb *Comp

	BeforeEach(func() {
		tlb = MakeBuilder().Build("TLB")
	})

	It("should default to 16 entries", func() {
		Expect(tlb.Capacity()).To(Equal(16))
		Expect(tlb.Len()).To(Equal(0))
	})

	It("should evict the oldest mapping on the 17th insertion", func() {
		for p := 0; p < 17; p++ {
			tlb.Insert(uint8(p), uint8(p))
		}

		_, found := tlb.Lookup(0)
		Expect(found).To(BeFalse())

		frame, found := tlb.Lookup(16)
		Expect(found).To(BeTrue())
		Expect(frame).To(Equal(uint8(16)))

		Expect(tlb.Len()).To(Equal(16))
		Expect(tlb.Entries()[0].PageNumber).To(Equal(uint8(1)))
	})

	It("should return the oldest of duplicated mappings", func() {
		tlb.Insert(5, 1)
		tlb.Insert(5, 2)

		frame, found := tlb.Lookup(5)

		Expect(found).To(BeTrue())
		Expect(frame).To(Equal(uint8(1)))
	})

	It("should respect a custom capacity", func() {
		tlb = MakeBuilder().WithNumEntries(2).Build("TLB")

		tlb.Insert(1, 1)
		tlb.Insert(2, 2)
		tlb.Insert(3, 3)

		Expect(tlb.Entries()).To(Equal([]vm.Page{
			{PageNumber: 2, FrameNumber: 2, Valid: true},
			{PageNumber: 3, FrameNumber: 3, Valid: true},
		}))
	})

	It("should panic without entries", func() {
		Expect(func() {
			MakeBuilder().WithNumEntries(0).Build("TLB")
		}).To(Panic())
	})
})
