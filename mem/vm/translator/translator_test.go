package translator

import (
	"fmt"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/sarchlab/pagesim/mem/vm"
	"github.com/sarchlab/pagesim/memory"
	"github.com/sarchlab/pagesim/sim"
	"go.uber.org/mock/gomock"
)

type hookPosMatcher struct {
	pos *sim.HookPos
}

func (m hookPosMatcher) Matches(x any) bool {
	ctx, ok := x.(sim.HookCtx)
	return ok && ctx.Pos == m.pos
}

func (m hookPosMatcher) String() string {
	return fmt.Sprintf("is triggered at %s", m.pos.Name)
}

func atPos(pos *sim.HookPos) gomock.Matcher {
	return hookPosMatcher{pos: pos}
}

// patternImage returns a backing store image where the byte at page p and
// offset o is p+o.
func patternImage() []byte {
	data := make([]byte, vm.AddressSpaceSize)
	for i := range data {
		page, offset := vm.Decode(vm.LogicalAddress(i))
		data[i] = page + offset
	}
	return data
}

var _ = Describe("Translator", func() {
	var (
		mockCtrl *gomock.Controller
		hook     *MockHook
		t        *Comp
	)

	BeforeEach(func() {
		mockCtrl = gomock.NewController(GinkgoT())
		hook = NewMockHook(mockCtrl)

		t = MakeBuilder().
			WithBackingStore(
				memory.NewBackingStoreFromBytes(patternImage(), vm.PageSize)).
			WithIDGenerator(sim.NewSequentialIDGenerator()).
			Build("Translator")
	})

	AfterEach(func() {
		mockCtrl.Finish()
	})

	It("should fault on the first access to a page", func() {
		tr, err := t.Translate(0x0305)

		Expect(err).NotTo(HaveOccurred())
		Expect(tr.ID).To(Equal("1"))
		Expect(tr.Outcome).To(Equal(PageFault))
		Expect(tr.Page).To(Equal(uint8(3)))
		Expect(tr.Offset).To(Equal(uint8(5)))
		Expect(tr.Frame).To(Equal(uint8(0)))
		Expect(tr.Physical).To(Equal(vm.PhysicalAddress(5)))
		Expect(tr.Value).To(Equal(int8(8)))

		frame, found := t.PageTable().Lookup(3)
		Expect(found).To(BeTrue())
		Expect(frame).To(Equal(uint8(0)))
		Expect(t.TLB().Entries()).To(Equal([]vm.Page{
			{PageNumber: 3, FrameNumber: 0, Valid: true},
		}))
		Expect(t.FrameAllocator().Allocated()).To(Equal(1))
	})

	It("should hit the TLB on an immediate repeat", func() {
		_, err := t.Translate(0x0305)
		Expect(err).NotTo(HaveOccurred())

		tr, err := t.Translate(0x0305)

		Expect(err).NotTo(HaveOccurred())
		Expect(tr.Outcome).To(Equal(TLBHit))
		Expect(tr.Physical).To(Equal(vm.PhysicalAddress(5)))
		Expect(tr.Value).To(Equal(int8(8)))
		Expect(t.TLB().Len()).To(Equal(1))
		Expect(t.FrameAllocator().Allocated()).To(Equal(1))
	})

	It("should allocate frames in fault order", func() {
		_, _ = t.Translate(0x0A00)
		_, _ = t.Translate(0x0200)

		tr, err := t.Translate(0x02FF)

		Expect(err).NotTo(HaveOccurred())
		Expect(tr.Frame).To(Equal(uint8(1)))
		Expect(tr.Physical).To(Equal(vm.PhysicalAddress(0x01FF)))
		Expect(tr.Value).To(Equal(int8(1)))
	})

	It("should fall back to the page table after a TLB eviction", func() {
		for p := 0; p < 17; p++ {
			_, err := t.Translate(vm.Compose(uint8(p), 0))
			Expect(err).NotTo(HaveOccurred())
		}

		_, found := t.TLB().Lookup(0)
		Expect(found).To(BeFalse())

		tr, err := t.Translate(vm.Compose(0, 1))

		Expect(err).NotTo(HaveOccurred())
		Expect(tr.Outcome).To(Equal(PageTableHit))
		Expect(tr.Frame).To(Equal(uint8(0)))
		Expect(tr.Value).To(Equal(int8(1)))
		Expect(t.FrameAllocator().Allocated()).To(Equal(17))

		entries := t.TLB().Entries()
		Expect(entries[len(entries)-1]).To(Equal(
			vm.Page{PageNumber: 0, FrameNumber: 0, Valid: true}))
	})

	It("should fault each page at most once", func() {
		faults := map[uint8]int{}
		t.AcceptHook(sim.HookFunc(func(ctx sim.HookCtx) {
			if ctx.Pos == HookPosPageFault {
				faults[ctx.Item.(Translation).Page]++
			}
		}))

		for round := 0; round < 3; round++ {
			for a := 0; a < vm.AddressSpaceSize; a += 97 {
				_, err := t.Translate(vm.LogicalAddress(a))
				Expect(err).NotTo(HaveOccurred())
			}
		}

		for _, n := range faults {
			Expect(n).To(Equal(1))
		}
		Expect(t.PageTable().NumMapped()).To(Equal(len(faults)))
	})

	It("should map every page into exactly all frames", func() {
		for p := 0; p < vm.NumPages; p++ {
			_, err := t.Translate(vm.Compose(uint8(p), 0))
			Expect(err).NotTo(HaveOccurred())
		}

		Expect(t.FrameAllocator().Allocated()).To(Equal(vm.MaxFrames))
		Expect(t.PageTable().NumMapped()).To(Equal(vm.NumPages))
	})

	It("should read zeros from a zero backing store", func() {
		t = MakeBuilder().
			WithBackingStore(memory.NewBackingStoreFromBytes(
				make([]byte, vm.AddressSpaceSize), vm.PageSize)).
			Build("Translator")

		for a := 0; a < vm.AddressSpaceSize; a += 131 {
			tr, err := t.Translate(vm.LogicalAddress(a))
			Expect(err).NotTo(HaveOccurred())
			Expect(tr.Value).To(Equal(int8(0)))
		}
	})

	It("should report signed values", func() {
		image := make([]byte, vm.AddressSpaceSize)
		image[0] = 0x80
		t = MakeBuilder().
			WithBackingStore(memory.NewBackingStoreFromBytes(image, vm.PageSize)).
			Build("Translator")

		tr, err := t.Translate(0)

		Expect(err).NotTo(HaveOccurred())
		Expect(tr.Value).To(Equal(int8(-128)))
	})

	It("should report an undersized backing store", func() {
		t = MakeBuilder().
			WithBackingStore(memory.NewBackingStoreFromBytes(
				make([]byte, 2*vm.PageSize), vm.PageSize)).
			Build("Translator")

		_, err := t.Translate(vm.Compose(2, 0))

		Expect(err).To(MatchError(memory.ErrOutOfRange))
		_, found := t.PageTable().Lookup(2)
		Expect(found).To(BeFalse())
	})

	It("should report exhausted frames", func() {
		t = MakeBuilder().
			WithBackingStore(
				memory.NewBackingStoreFromBytes(patternImage(), vm.PageSize)).
			WithNumFrames(2).
			Build("Translator")

		_, err := t.Translate(vm.Compose(0, 0))
		Expect(err).NotTo(HaveOccurred())
		_, err = t.Translate(vm.Compose(1, 0))
		Expect(err).NotTo(HaveOccurred())

		_, err = t.Translate(vm.Compose(2, 0))

		Expect(err).To(MatchError(vm.ErrCapacityExhausted))
	})

	It("should panic without a backing store", func() {
		Expect(func() { MakeBuilder().Build("Translator") }).To(Panic())
	})

	Context("hooks", func() {
		BeforeEach(func() {
			t.AcceptHook(hook)
		})

		It("should trigger miss, fault, and translated on a fault", func() {
			gomock.InOrder(
				hook.EXPECT().Func(atPos(HookPosTLBMiss)),
				hook.EXPECT().Func(atPos(HookPosPageFault)),
				hook.EXPECT().
					Func(atPos(HookPosTranslated)).
					Do(func(ctx sim.HookCtx) {
						tr := ctx.Item.(Translation)
						Expect(tr.Outcome).To(Equal(PageFault))
						Expect(ctx.Domain).To(BeIdenticalTo(t))
					}),
			)

			_, err := t.Translate(0x0100)

			Expect(err).NotTo(HaveOccurred())
		})

		It("should trigger hit and translated on a TLB hit", func() {
			hook.EXPECT().Func(gomock.Any()).Times(3)
			_, _ = t.Translate(0x0100)

			gomock.InOrder(
				hook.EXPECT().Func(atPos(HookPosTLBHit)),
				hook.EXPECT().Func(atPos(HookPosTranslated)),
			)

			_, err := t.Translate(0x0101)

			Expect(err).NotTo(HaveOccurred())
		})

		It("should not trigger translated on failure", func() {
			t = MakeBuilder().
				WithBackingStore(memory.NewBackingStoreFromBytes(
					nil, vm.PageSize)).
				Build("Translator")
			t.AcceptHook(hook)

			gomock.InOrder(
				hook.EXPECT().Func(atPos(HookPosTLBMiss)),
				hook.EXPECT().Func(atPos(HookPosPageFault)),
			)

			_, err := t.Translate(0)

			Expect(err).To(HaveOccurred())
		})
	})
})
