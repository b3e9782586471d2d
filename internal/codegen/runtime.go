package codegen

// One-shot runtime helper snippets, emitted at most once per target (spec
// §4.4 "Emitter outputs": "any one-shot helpers ... included exactly once
// per target").

const propagateHelperSrc = `function __propagate(r) {
  if (r && r.__tag === "Err") { const e = new Error(); e.__tova_propagate = true; e.value = r; throw e; }
  if (r && r.__tag === "None") { const e = new Error(); e.__tova_propagate = true; e.value = r; throw e; }
  return r && (r.__tag === "Ok" || r.__tag === "Some") ? r.value : r;
}
`

const sumTypeHelperSrc = `function Ok(value) { return { __tag: "Ok", value }; }
function Err(error) { return { __tag: "Err", value: error }; }
function Some(value) { return { __tag: "Some", value }; }
const None = { __tag: "None" };
`

const jsxRuntimeImportSrc = `import { tova_el, tova_fragment } from "tova:runtime/jsx";
`

const cssInjectHelperSrc = `import { tova_inject_css } from "tova:runtime/css";
`

const signalRuntimeImportSrc = `import { createSignal, createComputed, createEffect, mount } from "tova:runtime/reactive";
`
